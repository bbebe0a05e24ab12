package services

import (
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/chekline/backend/internal/models"
)

const uniqueViolation = "23505"

// CheckFilter narrows a check listing. All fields are optional and combined
// with AND; bounds are inclusive.
type CheckFilter struct {
	DateFrom    *time.Time
	DateTo      *time.Time
	MinTotal    *float64
	PaymentType string
}

// CheckRepository persists checks and their line items.
type CheckRepository struct {
	db *sql.DB
}

func NewCheckRepository(db *sql.DB) *CheckRepository {
	return &CheckRepository{db: db}
}

// newPublicToken returns a fresh 32-char hex capability token.
func newPublicToken() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}

// CreateCheck computes totals for the given items and payment and persists
// the check with all its line items in one transaction. An insufficient
// payment fails before anything is written; any mid-transaction failure
// rolls the whole check back.
func (r *CheckRepository) CreateCheck(ownerID int64, products []ProductInput, payment PaymentInput, additionalData json.RawMessage) (*models.Check, error) {
	computed, err := ComputeCheck(products, payment)
	if err != nil {
		return nil, err
	}

	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	check := &models.Check{
		UserID: ownerID,
		Payment: models.Payment{
			Type:   payment.Type,
			Amount: payment.Amount,
		},
		Total:          computed.Total,
		Rest:           computed.Rest,
		AdditionalData: additionalData,
		PublicToken:    newPublicToken(),
	}

	var additional any
	if len(additionalData) > 0 {
		additional = []byte(additionalData)
	}

	err = tx.QueryRow(`
        INSERT INTO checks (user_id, total, rest, payment_type, payment_amount, additional_data, public_token)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at
    `, ownerID, check.Total, check.Rest, check.Payment.Type, check.Payment.Amount, additional, check.PublicToken).
		Scan(&check.ID, &check.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			// Token collision is vanishingly rare; the unique constraint
			// catches it and one retry gets a fresh token.
			logrus.Warnf("[CHECK] Public token collision, retrying: %v", err)
			return r.CreateCheck(ownerID, products, payment, additionalData)
		}
		return nil, fmt.Errorf("failed to insert check: %w", err)
	}

	for i := range computed.Products {
		p := &computed.Products[i]
		p.CheckID = check.ID
		err = tx.QueryRow(`
            INSERT INTO check_products (check_id, name, price, quantity, total)
            VALUES ($1, $2, $3, $4, $5)
            RETURNING id
        `, p.CheckID, p.Name, p.Price, p.Quantity, p.Total).Scan(&p.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to insert check product: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit check: %w", err)
	}

	check.Products = computed.Products
	return check, nil
}

// ListChecks returns the owner's checks, newest first, after applying the
// filter and limit/offset pagination.
func (r *CheckRepository) ListChecks(ownerID int64, filter CheckFilter, limit, offset int) ([]models.Check, error) {
	conditions := []string{"user_id = $1"}
	args := []any{ownerID}
	argIndex := 2

	if filter.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", argIndex))
		args = append(args, *filter.DateFrom)
		argIndex++
	}

	if filter.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", argIndex))
		args = append(args, *filter.DateTo)
		argIndex++
	}

	if filter.MinTotal != nil {
		conditions = append(conditions, fmt.Sprintf("total >= $%d", argIndex))
		args = append(args, *filter.MinTotal)
		argIndex++
	}

	if filter.PaymentType != "" {
		conditions = append(conditions, fmt.Sprintf("payment_type = $%d", argIndex))
		args = append(args, filter.PaymentType)
		argIndex++
	}

	query := `
        SELECT id, user_id, total, rest, payment_type, payment_amount, additional_data, public_token, created_at
        FROM checks
        WHERE ` + strings.Join(conditions, " AND ") +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, limit, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list checks: %w", err)
	}
	defer rows.Close()

	checks := []models.Check{}
	for rows.Next() {
		check, err := scanCheck(rows)
		if err != nil {
			return nil, err
		}
		checks = append(checks, *check)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list checks: %w", err)
	}

	if err := r.loadProducts(checks); err != nil {
		return nil, err
	}

	return checks, nil
}

// GetCheckByID returns the check with its items only if it belongs to
// ownerID. A check owned by someone else reads as ErrNotFound.
func (r *CheckRepository) GetCheckByID(ownerID, checkID int64) (*models.Check, error) {
	row := r.db.QueryRow(`
        SELECT id, user_id, total, rest, payment_type, payment_amount, additional_data, public_token, created_at
        FROM checks
        WHERE id = $1 AND user_id = $2
    `, checkID, ownerID)

	return r.getCheck(row)
}

// GetCheckByPublicToken looks a check up by its public sharing token. The
// token itself is the capability, so no ownership check applies.
func (r *CheckRepository) GetCheckByPublicToken(token string) (*models.Check, error) {
	row := r.db.QueryRow(`
        SELECT id, user_id, total, rest, payment_type, payment_amount, additional_data, public_token, created_at
        FROM checks
        WHERE public_token = $1
    `, token)

	return r.getCheck(row)
}

func (r *CheckRepository) getCheck(row *sql.Row) (*models.Check, error) {
	check, err := scanCheck(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	checks := []models.Check{*check}
	if err := r.loadProducts(checks); err != nil {
		return nil, err
	}

	return &checks[0], nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCheck(row rowScanner) (*models.Check, error) {
	check := &models.Check{}
	var additional []byte
	err := row.Scan(
		&check.ID, &check.UserID, &check.Total, &check.Rest,
		&check.Payment.Type, &check.Payment.Amount,
		&additional, &check.PublicToken, &check.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan check: %w", err)
	}

	if len(additional) > 0 {
		check.AdditionalData = json.RawMessage(additional)
	}
	check.Products = []models.CheckProduct{}
	return check, nil
}

// loadProducts attaches line items to the given checks in one query.
func (r *CheckRepository) loadProducts(checks []models.Check) error {
	if len(checks) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(checks))
	byID := make(map[int64]*models.Check, len(checks))
	for i := range checks {
		ids = append(ids, checks[i].ID)
		byID[checks[i].ID] = &checks[i]
	}

	rows, err := r.db.Query(`
        SELECT id, check_id, name, price, quantity, total
        FROM check_products
        WHERE check_id = ANY($1)
        ORDER BY id
    `, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to load check products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.CheckProduct
		if err := rows.Scan(&p.ID, &p.CheckID, &p.Name, &p.Price, &p.Quantity, &p.Total); err != nil {
			return fmt.Errorf("failed to scan check product: %w", err)
		}
		if check, ok := byID[p.CheckID]; ok {
			check.Products = append(check.Products, p)
		}
	}
	return rows.Err()
}
