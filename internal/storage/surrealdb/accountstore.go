package surrealdb

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
	"github.com/vortexhq/vortex/internal/common"
	"github.com/vortexhq/vortex/internal/interfaces"
	"github.com/vortexhq/vortex/internal/models"
)

// ErrNotFound aliases the storage-wide not-found sentinel.
var ErrNotFound = interfaces.ErrNotFound

// AccountStore persists credentialed identities in the account table.
type AccountStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewAccountStore(db *surrealdb.DB, logger *common.Logger) *AccountStore {
	return &AccountStore{
		db:     db,
		logger: logger,
	}
}

func (s *AccountStore) GetAccount(ctx context.Context, userID string) (*models.Account, error) {
	account, err := surrealdb.Select[models.Account](ctx, s.db, surrealmodels.NewRecordID("account", userID))
	if err != nil {
		return nil, fmt.Errorf("failed to select account: %w", err)
	}
	if account == nil || account.UserID == "" {
		return nil, ErrNotFound
	}
	return account, nil
}

func (s *AccountStore) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	sql := "SELECT * FROM account WHERE email = $email LIMIT 1"
	vars := map[string]any{"email": email}

	results, err := surrealdb.Query[[]models.Account](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to query account by email: %w", err)
	}
	if results != nil && len(*results) > 0 && len((*results)[0].Result) > 0 {
		return &(*results)[0].Result[0], nil
	}
	return nil, ErrNotFound
}

func (s *AccountStore) SaveAccount(ctx context.Context, account *models.Account) error {
	sql := "UPSERT type::record('account', $id) CONTENT $account"
	vars := map[string]any{"id": account.UserID, "account": account}

	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]models.Account](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		if attempt == 3 {
			return fmt.Errorf("failed to save account after retries: %w", err)
		}
	}
	return nil
}

func (s *AccountStore) DeleteAccount(ctx context.Context, userID string) error {
	_, err := surrealdb.Delete[models.Account](ctx, s.db, surrealmodels.NewRecordID("account", userID))
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}

func (s *AccountStore) ListAccounts(ctx context.Context) ([]*models.Account, error) {
	list, err := surrealdb.Select[[]models.Account](ctx, s.db, surrealmodels.Table("account"))
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	var accounts []*models.Account
	if list != nil {
		for i := range *list {
			if (*list)[i].UserID != "" {
				accounts = append(accounts, &(*list)[i])
			}
		}
	}
	return accounts, nil
}

// Compile-time check
var _ interfaces.AccountStore = (*AccountStore)(nil)
