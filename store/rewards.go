package store

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"qr-request-manager/models"
)

// AddRewardEntry appends a signed adjustment to an identity's ledger.
// Positive points are bonuses, negative points are deductions. The entry
// is append-only; corrections are new entries, never edits.
func (s *Store) AddRewardEntry(name, phone string, points int, reason string) (*models.RewardEntry, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if name == "" {
		return nil, &ValidationError{Field: "name", Msg: "is required"}
	}
	if phone == "" {
		return nil, &ValidationError{Field: "phone", Msg: "is required"}
	}
	entry := &models.RewardEntry{
		Name:   name,
		Phone:  phone,
		Points: points,
		Reason: strings.TrimSpace(reason),
	}
	if err := s.DB.Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// ListRewardEntries returns an identity's ledger entries newest-first.
func (s *Store) ListRewardEntries(name, phone string) ([]models.RewardEntry, error) {
	var entries []models.RewardEntry
	err := s.DB.Where("name = ? AND phone = ?", name, phone).
		Order("created_at DESC, id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ClearRewardEntries deletes an identity's entire ledger and returns how
// many entries were removed.
func (s *Store) ClearRewardEntries(name, phone string) (int64, error) {
	res := s.DB.Where("name = ? AND phone = ?", name, phone).Delete(&models.RewardEntry{})
	return res.RowsAffected, res.Error
}

// AdjustmentSum returns the signed sum of an identity's ledger entries.
// Identity matching is exact and case sensitive on both name and phone.
func (s *Store) AdjustmentSum(name, phone string) (int, error) {
	return s.adjustmentSum(s.DB, name, phone)
}

func (s *Store) adjustmentSum(db *gorm.DB, name, phone string) (int, error) {
	var sum int
	err := db.Model(&models.RewardEntry{}).
		Where("name = ? AND phone = ?", name, phone).
		Select("COALESCE(SUM(points), 0)").
		Scan(&sum).Error
	return sum, err
}

// EarnedPoints sums the per-submission point value of every request the
// identity has submitted to.
func (s *Store) EarnedPoints(name, phone string) (int, error) {
	return s.earnedPoints(s.DB, name, phone)
}

func (s *Store) earnedPoints(db *gorm.DB, name, phone string) (int, error) {
	var sum int
	err := db.Model(&models.Submission{}).
		Joins("JOIN requests ON requests.id = submissions.request_id").
		Where("submissions.name = ? AND submissions.phone = ?", name, phone).
		Select("COALESCE(SUM(requests.points_per_submission), 0)").
		Scan(&sum).Error
	return sum, err
}

// ComputeBalance floors the payable balance at zero. A net-negative
// ledger means the identity owes nothing; it is never a debt.
func ComputeBalance(earned, adjustments int) int {
	balance := earned + adjustments
	if balance < 0 {
		return 0
	}
	return balance
}

// Balance returns the identity's current payable balance.
func (s *Store) Balance(name, phone string) (int, error) {
	earned, err := s.EarnedPoints(name, phone)
	if err != nil {
		return 0, err
	}
	adj, err := s.AdjustmentSum(name, phone)
	if err != nil {
		return 0, err
	}
	return ComputeBalance(earned, adj), nil
}

// PayInFull zeroes an identity's balance by appending a negative "paid"
// entry. The balance is recomputed inside the transaction, so concurrent
// submissions cannot slip between the read and the write. Paying a zero
// balance is a no-op and appends nothing.
func (s *Store) PayInFull(name, phone string) (int, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	var paid int
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		earned, err := s.earnedPoints(tx, name, phone)
		if err != nil {
			return err
		}
		adj, err := s.adjustmentSum(tx, name, phone)
		if err != nil {
			return err
		}
		balance := ComputeBalance(earned, adj)
		if balance == 0 {
			return nil
		}
		paid = balance
		return tx.Create(&models.RewardEntry{
			Name:   name,
			Phone:  phone,
			Points: -balance,
			Reason: models.PayoutReason,
		}).Error
	})
	return paid, err
}

// IdentityFilter narrows AggregateIdentities. Name matches are case
// insensitive substrings, phone matches are plain substrings, and the
// time bounds apply to the latest submission.
type IdentityFilter struct {
	Name  string
	Phone string
	From  *time.Time
	To    *time.Time
}

// IdentitySummary is one row of the review table: an identity with its
// submission count and point totals.
type IdentitySummary struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Submissions int    `json:"submissions"`
	Earned      int    `json:"earned"`
	Adjustments int    `json:"adjustments"`
	Balance     int    `json:"balance"`
}

// AggregateIdentities groups submissions by exact (name, phone) pairs and
// computes each identity's totals. Identities that only appear in the
// reward ledger (never submitted) are not listed.
func (s *Store) AggregateIdentities(filter IdentityFilter) ([]IdentitySummary, error) {
	type row struct {
		Name        string
		Phone       string
		Submissions int
		Earned      int
		LastSeen    time.Time
	}

	q := s.DB.Model(&models.Submission{}).
		Joins("JOIN requests ON requests.id = submissions.request_id").
		Select("submissions.name AS name, submissions.phone AS phone, " +
			"COUNT(submissions.id) AS submissions, " +
			"COALESCE(SUM(requests.points_per_submission), 0) AS earned, " +
			"MAX(submissions.created_at) AS last_seen").
		Group("submissions.name, submissions.phone")

	if filter.Name != "" {
		q = q.Where("LOWER(submissions.name) LIKE ?", "%"+strings.ToLower(filter.Name)+"%")
	}
	if filter.Phone != "" {
		q = q.Where("submissions.phone LIKE ?", "%"+filter.Phone+"%")
	}
	if filter.From != nil {
		q = q.Having("MAX(submissions.created_at) >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Having("MAX(submissions.created_at) <= ?", *filter.To)
	}

	var rows []row
	if err := q.Order("earned DESC, name ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	summaries := make([]IdentitySummary, 0, len(rows))
	for _, r := range rows {
		adj, err := s.AdjustmentSum(r.Name, r.Phone)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, IdentitySummary{
			Name:        r.Name,
			Phone:       r.Phone,
			Submissions: r.Submissions,
			Earned:      r.Earned,
			Adjustments: adj,
			Balance:     ComputeBalance(r.Earned, adj),
		})
	}
	return summaries, nil
}
