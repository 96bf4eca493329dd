// internal/database/hand.go
package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fanxiao/doudizhu/internal/game"
)

// InsertHandRecordTx writes one finished hand into hand_records and, unless
// the hand was voided, folds each seat's delta into player_scores. Runs inside
// the caller's transaction so the historian can batch many records atomically.
func InsertHandRecordTx(ctx context.Context, tx pgx.Tx, rec game.HandRecord) error {
	seatsJSON, err := json.Marshal(rec.Seats)
	if err != nil {
		return fmt.Errorf("marshal seats: %w", err)
	}

	q := `
		INSERT INTO hand_records (
			room_id, hand_num, landlord_seat, winner_side, bid,
			multiplier, score, voided, seats, duration_ms, played_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = tx.Exec(ctx, q,
		rec.RoomID, rec.HandNum, rec.LandlordSeat, rec.WinnerSide, rec.Bid,
		rec.Multiplier, rec.Score, rec.Voided, seatsJSON,
		rec.Duration.Milliseconds(), rec.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert hand record: %w", err)
	}

	if rec.Voided {
		return nil
	}

	upsert := `
		INSERT INTO player_scores (user_id, username, hands_played, hands_won, total_score)
		VALUES ($1, $2, 1, $3, $4)
		ON CONFLICT (user_id)
		DO UPDATE SET
			username     = EXCLUDED.username,
			hands_played = player_scores.hands_played + 1,
			hands_won    = player_scores.hands_won + EXCLUDED.hands_won,
			total_score  = player_scores.total_score + EXCLUDED.total_score
	`
	for _, seat := range rec.Seats {
		if seat.UserID == uuid.Nil {
			continue
		}
		won := 0
		if seat.Delta > 0 {
			won = 1
		}
		if _, err := tx.Exec(ctx, upsert, seat.UserID, seat.Name, won, seat.Delta); err != nil {
			return fmt.Errorf("upsert player score for %s: %w", seat.UserID, err)
		}
	}
	return nil
}

// InsertHandRecord is the single-record convenience wrapper used outside the
// historian's batch path.
func InsertHandRecord(ctx context.Context, rec game.HandRecord) error {
	return pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		return InsertHandRecordTx(ctx, tx, rec)
	})
}

// PlayerStats is one user's cumulative line from player_scores.
type PlayerStats struct {
	UserID      uuid.UUID `json:"user_id"`
	Username    string    `json:"username"`
	HandsPlayed int       `json:"hands_played"`
	HandsWon    int       `json:"hands_won"`
	TotalScore  int       `json:"total_score"`
}

// GetPlayerStats returns the cumulative stats for one user, or a zero row if
// the user has never finished a hand.
func GetPlayerStats(ctx context.Context, userID uuid.UUID) (PlayerStats, error) {
	stats := PlayerStats{UserID: userID}
	q := `
		SELECT username, hands_played, hands_won, total_score
		FROM player_scores
		WHERE user_id = $1
	`
	err := DB.QueryRow(ctx, q, userID).Scan(
		&stats.Username, &stats.HandsPlayed, &stats.HandsWon, &stats.TotalScore,
	)
	if err == pgx.ErrNoRows {
		return stats, nil
	}
	if err != nil {
		return stats, err
	}
	return stats, nil
}

// Leaderboard returns the top players ordered by total score.
func Leaderboard(ctx context.Context, limit int) ([]PlayerStats, error) {
	if limit <= 0 {
		limit = 20
	}
	q := `
		SELECT user_id, username, hands_played, hands_won, total_score
		FROM player_scores
		ORDER BY total_score DESC, hands_won DESC
		LIMIT $1
	`
	rows, err := DB.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PlayerStats
	for rows.Next() {
		var s PlayerStats
		if err := rows.Scan(&s.UserID, &s.Username, &s.HandsPlayed, &s.HandsWon, &s.TotalScore); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// RoomHistory returns the most recent finished hands for one room, newest
// first.
func RoomHistory(ctx context.Context, roomID uuid.UUID, limit int) ([]game.HandRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	q := `
		SELECT room_id, hand_num, landlord_seat, winner_side, bid,
		       multiplier, score, voided, seats, played_at
		FROM hand_records
		WHERE room_id = $1
		ORDER BY played_at DESC
		LIMIT $2
	`
	rows, err := DB.Query(ctx, q, roomID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []game.HandRecord
	for rows.Next() {
		var rec game.HandRecord
		var seatsJSON []byte
		if err := rows.Scan(
			&rec.RoomID, &rec.HandNum, &rec.LandlordSeat, &rec.WinnerSide, &rec.Bid,
			&rec.Multiplier, &rec.Score, &rec.Voided, &seatsJSON, &rec.Timestamp,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(seatsJSON, &rec.Seats); err != nil {
			return nil, fmt.Errorf("decode seats for hand %d: %w", rec.HandNum, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
