package reporting

import (
	"context"
	"database/sql"
	"time"

	"github.com/gocomet/ride-ledger/internal/domain/support"
	"github.com/gocomet/ride-ledger/internal/service/pricing"
	"github.com/gocomet/ride-ledger/pkg/database"
	"github.com/gocomet/ride-ledger/pkg/logger"
)

// DefaultHighSpenderThreshold is the spend a passenger must exceed to be a high spender
const DefaultHighSpenderThreshold = 1000.0

const summaryCacheKey = "summary"

// DB is the read-only query surface the reports need
type DB interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Cache stores report snapshots
type Cache interface {
	Get(ctx context.Context, name string, dst interface{}) (bool, error)
	Set(ctx context.Context, name string, value interface{}) error
}

// Metrics receives query latencies
type Metrics interface {
	RecordQuery(op string, elapsed time.Duration)
}

// Config holds reporting configuration. The threshold is used as given, zero included.
type Config struct {
	HighSpenderThreshold float64
}

// DefaultConfig returns the standard reporting configuration
func DefaultConfig() Config {
	return Config{HighSpenderThreshold: DefaultHighSpenderThreshold}
}

// PassengerSpend is a passenger's summed ride prices
type PassengerSpend struct {
	PassengerID int64   `json:"passenger_id"`
	Name        string  `json:"name"`
	TotalSpent  float64 `json:"total_spent"`
}

// Extremes holds the cheapest and most expensive ride prices. Both are nil when there are no rides.
type Extremes struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// RideTier is the fare tier of one ride
type RideTier struct {
	RideID int64        `json:"ride_id"`
	Price  float64      `json:"price"`
	Tier   pricing.Tier `json:"tier"`
}

// Summary bundles every ledger report
type Summary struct {
	Rides                int64            `json:"rides"`
	CompletedRides       int64            `json:"completed_rides"`
	TotalRevenue         float64          `json:"total_revenue"`
	AverageFare          float64          `json:"average_fare"`
	Prices               Extremes         `json:"prices"`
	SpendPerPassenger    []PassengerSpend `json:"spend_per_passenger"`
	HighSpenderThreshold float64          `json:"high_spender_threshold"`
	HighSpenders         []PassengerSpend `json:"high_spenders"`
	FareTiers            []RideTier       `json:"fare_tiers"`
	Tickets              support.Stats    `json:"tickets"`
	GeneratedAt          time.Time        `json:"generated_at"`
}

// Service answers aggregate questions about the ledger. It never writes to the store.
type Service struct {
	db         DB
	classifier *pricing.Classifier
	cache      Cache
	metrics    Metrics
	logger     *logger.Logger
	config     Config
}

// NewService creates a new reporting service. cache and metrics may be nil.
func NewService(db DB, classifier *pricing.Classifier, cache Cache, metrics Metrics, log *logger.Logger, config Config) *Service {
	if classifier == nil {
		classifier = pricing.NewClassifier(pricing.DefaultConfig())
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		db:         db,
		classifier: classifier,
		cache:      cache,
		metrics:    metrics,
		logger:     log.Named("reporting"),
		config:     config,
	}
}

func (s *Service) observe(op string, start time.Time) {
	elapsed := time.Since(start)
	if s.metrics != nil {
		s.metrics.RecordQuery(op, elapsed)
	}
	s.logger.Debug("Report query", logger.Op(op), logger.Duration("elapsed", elapsed))
}

func (s *Service) scalar(ctx context.Context, op, query string, dst interface{}, args ...interface{}) error {
	defer s.observe(op, time.Now())
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(dst); err != nil {
		return database.Translate("report."+op, err)
	}
	return nil
}

// CountRides returns the number of rides
func (s *Service) CountRides(ctx context.Context) (int64, error) {
	var n int64
	err := s.scalar(ctx, "count_rides", `SELECT COUNT(*) FROM rides`, &n)
	return n, err
}

// CountCompletedRides returns the number of completed rides
func (s *Service) CountCompletedRides(ctx context.Context) (int64, error) {
	var n int64
	err := s.scalar(ctx, "count_completed_rides", `SELECT COUNT(*) FROM rides WHERE status = 'completed'`, &n)
	return n, err
}

// TotalRevenue sums the price of completed rides
func (s *Service) TotalRevenue(ctx context.Context) (float64, error) {
	var total float64
	err := s.scalar(ctx, "total_revenue", `SELECT COALESCE(SUM(price), 0) FROM rides WHERE status = 'completed'`, &total)
	return total, err
}

// AverageFare is the mean price over all rides, whatever their status
func (s *Service) AverageFare(ctx context.Context) (float64, error) {
	var avg float64
	err := s.scalar(ctx, "average_fare", `SELECT COALESCE(AVG(price), 0) FROM rides`, &avg)
	return avg, err
}

// PriceExtremes returns the lowest and highest ride price
func (s *Service) PriceExtremes(ctx context.Context) (Extremes, error) {
	const op = "price_extremes"
	defer s.observe(op, time.Now())

	var lo, hi sql.NullFloat64
	if err := s.db.QueryRowContext(ctx, `SELECT MIN(price), MAX(price) FROM rides`).Scan(&lo, &hi); err != nil {
		return Extremes{}, database.Translate("report."+op, err)
	}

	var ex Extremes
	if lo.Valid {
		ex.Min = &lo.Float64
	}
	if hi.Valid {
		ex.Max = &hi.Float64
	}
	return ex, nil
}

// SpendPerPassenger lists every passenger with the sum of their ride prices.
// Passengers without rides report zero.
func (s *Service) SpendPerPassenger(ctx context.Context) ([]PassengerSpend, error) {
	return s.spend(ctx, "spend_per_passenger", `
		SELECT p.passenger_id, p.full_name, COALESCE(SUM(r.price), 0) AS total_spent
		FROM passengers p
		LEFT JOIN rides r ON r.passenger_id = p.passenger_id
		GROUP BY p.passenger_id, p.full_name
		ORDER BY total_spent DESC, p.passenger_id
	`)
}

// HighSpenders lists passengers whose total spend is strictly above threshold
func (s *Service) HighSpenders(ctx context.Context, threshold float64) ([]PassengerSpend, error) {
	return s.spend(ctx, "high_spenders", `
		SELECT p.passenger_id, p.full_name, SUM(r.price) AS total_spent
		FROM passengers p
		JOIN rides r ON r.passenger_id = p.passenger_id
		GROUP BY p.passenger_id, p.full_name
		HAVING SUM(r.price) > $1
		ORDER BY total_spent DESC, p.passenger_id
	`, threshold)
}

func (s *Service) spend(ctx context.Context, op, query string, args ...interface{}) ([]PassengerSpend, error) {
	defer s.observe(op, time.Now())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, database.Translate("report."+op, err)
	}
	defer rows.Close()

	out := []PassengerSpend{}
	for rows.Next() {
		var ps PassengerSpend
		if err := rows.Scan(&ps.PassengerID, &ps.Name, &ps.TotalSpent); err != nil {
			return nil, database.Translate("report."+op, err)
		}
		out = append(out, ps)
	}
	if err := rows.Err(); err != nil {
		return nil, database.Translate("report."+op, err)
	}
	return out, nil
}

// FareTier classifies a single price
func (s *Service) FareTier(price float64) pricing.Tier {
	return s.classifier.Classify(price)
}

// FareTiers classifies every ride, ordered by ride id
func (s *Service) FareTiers(ctx context.Context) ([]RideTier, error) {
	const op = "fare_tiers"
	defer s.observe(op, time.Now())

	rows, err := s.db.QueryContext(ctx, `SELECT ride_id, price FROM rides ORDER BY ride_id`)
	if err != nil {
		return nil, database.Translate("report."+op, err)
	}
	defer rows.Close()

	out := []RideTier{}
	for rows.Next() {
		var rt RideTier
		if err := rows.Scan(&rt.RideID, &rt.Price); err != nil {
			return nil, database.Translate("report."+op, err)
		}
		rt.Tier = s.classifier.Classify(rt.Price)
		out = append(out, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, database.Translate("report."+op, err)
	}
	return out, nil
}

// TicketStats counts support tickets by status and by category
func (s *Service) TicketStats(ctx context.Context) (support.Stats, error) {
	const op = "ticket_stats"
	defer s.observe(op, time.Now())

	stats := support.Stats{ByCategory: []support.CategoryCount{}}

	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM support_tickets GROUP BY status`)
	if err != nil {
		return stats, database.Translate("report."+op, err)
	}
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			rows.Close()
			return stats, database.Translate("report."+op, err)
		}
		stats.Total += n
		normalized, _ := support.NormalizeStatus(status)
		switch normalized {
		case support.StatusOpen:
			stats.Open += n
		case support.StatusInProgress:
			stats.InProgress += n
		case support.StatusClosed:
			stats.Closed += n
		}
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return stats, database.Translate("report."+op, err)
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT category, COUNT(*) FROM support_tickets
		GROUP BY category
		ORDER BY COUNT(*) DESC, category
	`)
	if err != nil {
		return stats, database.Translate("report."+op, err)
	}
	defer rows.Close()
	for rows.Next() {
		var cc support.CategoryCount
		if err := rows.Scan(&cc.Category, &cc.Count); err != nil {
			return stats, database.Translate("report."+op, err)
		}
		stats.ByCategory = append(stats.ByCategory, cc)
	}
	if err := rows.Err(); err != nil {
		return stats, database.Translate("report."+op, err)
	}
	return stats, nil
}

// Summary runs every report. The result is served from the cache when one is configured.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	if s.cache != nil {
		var cached Summary
		hit, err := s.cache.Get(ctx, summaryCacheKey, &cached)
		if err != nil {
			s.logger.Warn("Summary cache read failed", logger.Err(err))
		} else if hit {
			s.logger.Debug("Summary served from cache")
			return &cached, nil
		}
	}

	sum, err := s.buildSummary(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, summaryCacheKey, sum); err != nil {
			s.logger.Warn("Summary cache write failed", logger.Err(err))
		}
	}
	return sum, nil
}

func (s *Service) buildSummary(ctx context.Context) (*Summary, error) {
	var (
		sum Summary
		err error
	)
	sum.HighSpenderThreshold = s.config.HighSpenderThreshold

	if sum.Rides, err = s.CountRides(ctx); err != nil {
		return nil, err
	}
	if sum.CompletedRides, err = s.CountCompletedRides(ctx); err != nil {
		return nil, err
	}
	if sum.TotalRevenue, err = s.TotalRevenue(ctx); err != nil {
		return nil, err
	}
	if sum.AverageFare, err = s.AverageFare(ctx); err != nil {
		return nil, err
	}
	if sum.Prices, err = s.PriceExtremes(ctx); err != nil {
		return nil, err
	}
	if sum.SpendPerPassenger, err = s.SpendPerPassenger(ctx); err != nil {
		return nil, err
	}
	if sum.HighSpenders, err = s.HighSpenders(ctx, s.config.HighSpenderThreshold); err != nil {
		return nil, err
	}
	if sum.FareTiers, err = s.FareTiers(ctx); err != nil {
		return nil, err
	}
	if sum.Tickets, err = s.TicketStats(ctx); err != nil {
		return nil, err
	}
	sum.GeneratedAt = time.Now().UTC()
	return &sum, nil
}
