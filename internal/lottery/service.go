package lottery

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"coin-casino/internal/event"
	"coin-casino/internal/logger"
	"coin-casino/internal/svcerr"
)

const (
	TicketPrice = 100
	PrizePool   = 10000

	numbersPerTicket = 3
	maxNumber        = 99
)

type Ledger interface {
	Apply(tx *sql.Tx, uid int64, delta int64) (int64, error)
}

type Ticket struct {
	UserID        int64 `json:"user_id"`
	ChosenNumbers []int `json:"chosen_numbers"`
}

type BuyResult struct {
	YourNumbers []int `json:"your_numbers"`
	NewBalance  int64 `json:"new_balance"`
}

type Info struct {
	YesterdaysDraw     []int `json:"yesterdays_draw"`
	UserTicketForToday []int `json:"user_ticket_for_today"`
}

type Service struct {
	db     *sql.DB
	ledger Ledger
	bus    *event.Bus

	rng *rand.Rand
	rmu sync.Mutex
}

func New(db *sql.DB, ledger Ledger, bus *event.Bus) *Service {
	return &Service{
		db:     db,
		ledger: ledger,
		bus:    bus,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Buy purchases the user's single ticket for today's draw.
func (s *Service) Buy(uid int64, numbers []int) (*BuyResult, error) {
	if err := validateNumbers(numbers); err != nil {
		return nil, err
	}

	today := dateString(time.Now())

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}

	newBalance, err := s.ledger.Apply(tx, uid, -TicketPrice)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	raw, _ := json.Marshal(numbers)
	_, err = tx.Exec(`
	INSERT INTO lottery_tickets(user_id, draw_date, chosen_numbers)
	VALUES (?,?,?)
	`, uid, today, string(raw))
	if err != nil {
		tx.Rollback()
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("ticket for %s already bought: %w", today, svcerr.ErrConflict)
		}
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &BuyResult{YourNumbers: numbers, NewBalance: newBalance}, nil
}

// GetInfo reports yesterday's winning numbers and the caller's ticket for
// today, either of which may be absent.
func (s *Service) GetInfo(uid int64) (*Info, error) {
	now := time.Now()
	info := &Info{}

	var raw string
	err := s.db.QueryRow(`
	SELECT winning_numbers FROM lottery_draws WHERE draw_date = ?
	`, dateString(now.AddDate(0, 0, -1))).Scan(&raw)
	if err == nil {
		json.Unmarshal([]byte(raw), &info.YesterdaysDraw)
	} else if err != sql.ErrNoRows {
		return nil, err
	}

	err = s.db.QueryRow(`
	SELECT chosen_numbers FROM lottery_tickets WHERE user_id = ? AND draw_date = ?
	`, uid, dateString(now)).Scan(&raw)
	if err == nil {
		json.Unmarshal([]byte(raw), &info.UserTicketForToday)
	} else if err != sql.ErrNoRows {
		return nil, err
	}

	return info, nil
}

// GenerateNumbers picks three distinct numbers in [1,99], resampling on
// collision.
func (s *Service) GenerateNumbers() []int {
	s.rmu.Lock()
	defer s.rmu.Unlock()

	seen := make(map[int]bool)
	numbers := make([]int, 0, numbersPerTicket)
	for len(numbers) < numbersPerTicket {
		n := s.rng.Intn(maxNumber) + 1
		if seen[n] {
			continue
		}
		seen[n] = true
		numbers = append(numbers, n)
	}
	return numbers
}

// Settle runs the draw for drawDate: persists the winning numbers exactly
// once, finds exact 3-of-3 tickets and splits the prize pool between them.
// A date that was already drawn is a conflict and pays nothing again.
func (s *Service) Settle(drawDate string, winningNumbers []int) error {
	if err := validateNumbers(winningNumbers); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	raw, _ := json.Marshal(winningNumbers)
	_, err = tx.Exec(`
	INSERT INTO lottery_draws(draw_date, winning_numbers) VALUES (?,?)
	`, drawDate, string(raw))
	if err != nil {
		tx.Rollback()
		if isUniqueViolation(err) {
			return fmt.Errorf("draw for %s already settled: %w", drawDate, svcerr.ErrConflict)
		}
		return err
	}

	tickets, err := ticketsForDate(tx, drawDate)
	if err != nil {
		tx.Rollback()
		return err
	}

	winning := make(map[int]bool, len(winningNumbers))
	for _, n := range winningNumbers {
		winning[n] = true
	}

	var winners []int64
	for _, t := range tickets {
		matches := 0
		for _, n := range t.ChosenNumbers {
			if winning[n] {
				matches++
			}
		}
		if matches == numbersPerTicket {
			winners = append(winners, t.UserID)
		}
	}

	var prizePerWinner int64
	if len(winners) > 0 {
		prizePerWinner = int64(PrizePool / len(winners))
		for _, uid := range winners {
			if _, err := s.ledger.Apply(tx, uid, prizePerWinner); err != nil {
				tx.Rollback()
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	logger.Log.Info("lottery settled",
		zap.String("draw_date", drawDate),
		zap.Ints("winning_numbers", winningNumbers),
		zap.Int("tickets", len(tickets)),
		zap.Int("winners", len(winners)),
		zap.Int64("prize_per_winner", prizePerWinner))

	s.bus.Publish(event.EventLotterySettled, event.LotterySettled{
		DrawDate:       drawDate,
		WinningNumbers: winningNumbers,
		Winners:        winners,
		PrizePerWinner: prizePerWinner,
	})
	return nil
}

func ticketsForDate(tx *sql.Tx, drawDate string) ([]Ticket, error) {
	rows, err := tx.Query(`
	SELECT user_id, chosen_numbers FROM lottery_tickets WHERE draw_date = ?
	`, drawDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []Ticket
	for rows.Next() {
		var t Ticket
		var raw string
		if err := rows.Scan(&t.UserID, &raw); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(raw), &t.ChosenNumbers); err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

func validateNumbers(numbers []int) error {
	if len(numbers) != numbersPerTicket {
		return fmt.Errorf("need exactly %d numbers: %w", numbersPerTicket, svcerr.ErrInvalidWager)
	}
	seen := make(map[int]bool)
	for _, n := range numbers {
		if n < 1 || n > maxNumber {
			return fmt.Errorf("number %d out of range: %w", n, svcerr.ErrInvalidWager)
		}
		if seen[n] {
			return fmt.Errorf("numbers must be distinct: %w", svcerr.ErrInvalidWager)
		}
		seen[n] = true
	}
	return nil
}

func dateString(t time.Time) string {
	return t.Format("2006-01-02")
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE")
}
