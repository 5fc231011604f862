package service

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/abenezer/localserve/internal/auth"
	apperrors "github.com/abenezer/localserve/internal/errors"
	"github.com/abenezer/localserve/internal/models"
	"github.com/abenezer/localserve/internal/repository"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminID      = "11111111-1111-1111-1111-111111111111"
	providerID   = "22222222-2222-2222-2222-222222222222"
	requestID    = "33333333-3333-3333-3333-333333333333"
	providerUser = "44444444-4444-4444-4444-444444444444"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func newAdminService(db *sqlx.DB) AdminService {
	return NewAdminService(db,
		repository.NewUserRepository(db),
		repository.NewProviderRepository(db),
		repository.NewServiceChangeRequestRepository(db),
		repository.NewRegionRepository(db),
		nil)
}

func userColumns() []string {
	return []string{"id", "name", "email", "password", "role", "region", "created_at", "updated_at"}
}

func providerColumns() []string {
	return []string{"id", "user_id", "service_type", "location", "contact_number", "description", "status", "rating", "created_at", "updated_at"}
}

func listingColumns() []string {
	return append(providerColumns(), "name", "email")
}

func requestColumns() []string {
	return []string{"id", "provider_id", "old_service", "requested_service", "status", "created_at"}
}

func adminRow(region interface{}) *sqlmock.Rows {
	return sqlmock.NewRows(userColumns()).
		AddRow(adminID, "Admin", "admin@example.com", "hash", models.RoleAdmin, region, time.Now(), time.Now())
}

func providerRow(location string) *sqlmock.Rows {
	return sqlmock.NewRows(providerColumns()).
		AddRow(providerID, providerUser, "Plumber", location, "0911000000", "", models.ProviderStatusApproved, 4.5, time.Now(), time.Now())
}

func expectAdminLookup(mock sqlmock.Sqlmock, region interface{}) {
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM users WHERE id = $1`)).
		WithArgs(adminID).
		WillReturnRows(adminRow(region))
}

func TestSetProviderStatusInvalidStatus(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newAdminService(db)
	caller := &auth.Claims{UserID: adminID, Role: models.RoleSuperAdmin}

	err := svc.SetProviderStatus(context.Background(), caller, providerID, "banned")

	var apiErr *apperrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.StatusCode)
	assert.Equal(t, "invalid_status", apiErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetProviderStatusOutOfRegion(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newAdminService(db)
	caller := &auth.Claims{UserID: adminID, Role: models.RoleAdmin}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM providers WHERE id = $1`)).
		WithArgs(providerID).
		WillReturnRows(providerRow("Piazza, Addis Ababa"))
	expectAdminLookup(mock, "Bole")

	err := svc.SetProviderStatus(context.Background(), caller, providerID, models.ProviderStatusBlocked)

	var apiErr *apperrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 403, apiErr.StatusCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetProviderStatusSuperAdminBypassesRegion(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newAdminService(db)
	caller := &auth.Claims{UserID: adminID, Role: models.RoleSuperAdmin}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM providers WHERE id = $1`)).
		WithArgs(providerID).
		WillReturnRows(providerRow("Piazza, Addis Ababa"))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE providers SET status = $1`)).
		WithArgs(models.ProviderStatusApproved, sqlmock.AnyArg(), providerID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := svc.SetProviderStatus(context.Background(), caller, providerID, models.ProviderStatusApproved)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetProviderStatusAdminInsideRegion(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newAdminService(db)
	caller := &auth.Claims{UserID: adminID, Role: models.RoleAdmin}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM providers WHERE id = $1`)).
		WithArgs(providerID).
		WillReturnRows(providerRow("Bole, Addis Ababa"))
	expectAdminLookup(mock, "Bole")
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE providers SET status = $1`)).
		WithArgs(models.ProviderStatusApproved, sqlmock.AnyArg(), providerID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := svc.SetProviderStatus(context.Background(), caller, providerID, models.ProviderStatusApproved)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetProviderStatusAdminWithoutRegionFailsClosed(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newAdminService(db)
	caller := &auth.Claims{UserID: adminID, Role: models.RoleAdmin}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM providers WHERE id = $1`)).
		WithArgs(providerID).
		WillReturnRows(providerRow("Bole, Addis Ababa"))
	expectAdminLookup(mock, nil)

	err := svc.SetProviderStatus(context.Background(), caller, providerID, models.ProviderStatusApproved)

	var apiErr *apperrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 403, apiErr.StatusCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetProviderStatusProviderNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newAdminService(db)
	caller := &auth.Claims{UserID: adminID, Role: models.RoleSuperAdmin}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM providers WHERE id = $1`)).
		WithArgs(providerID).
		WillReturnError(sql.ErrNoRows)

	err := svc.SetProviderStatus(context.Background(), caller, providerID, models.ProviderStatusApproved)

	var apiErr *apperrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.StatusCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func pendingRequestRow() *sqlmock.Rows {
	return sqlmock.NewRows(requestColumns()).
		AddRow(requestID, providerID, "Plumber", "Electrician", models.RequestStatusPending, time.Now())
}

func TestResolveServiceChangeApprove(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newAdminService(db)
	caller := &auth.Claims{UserID: adminID, Role: models.RoleAdmin}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM service_change_requests WHERE id = $1 FOR UPDATE`)).
		WithArgs(requestID).
		WillReturnRows(pendingRequestRow())
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM providers WHERE id = $1 FOR UPDATE`)).
		WithArgs(providerID).
		WillReturnRows(providerRow("Bole, Addis Ababa"))
	expectAdminLookup(mock, "Bole")
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE providers SET service_type = $1`)).
		WithArgs("Electrician", sqlmock.AnyArg(), providerID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE service_change_requests SET status = $1 WHERE id = $2`)).
		WithArgs(models.RequestStatusApproved, requestID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := svc.ResolveServiceChange(context.Background(), caller, requestID, models.RequestStatusApproved)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveServiceChangeRejectLeavesProviderUntouched(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newAdminService(db)
	caller := &auth.Claims{UserID: adminID, Role: models.RoleSuperAdmin}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM service_change_requests WHERE id = $1 FOR UPDATE`)).
		WithArgs(requestID).
		WillReturnRows(pendingRequestRow())
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM providers WHERE id = $1 FOR UPDATE`)).
		WithArgs(providerID).
		WillReturnRows(providerRow("Bole, Addis Ababa"))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE service_change_requests SET status = $1 WHERE id = $2`)).
		WithArgs(models.RequestStatusRejected, requestID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := svc.ResolveServiceChange(context.Background(), caller, requestID, models.RequestStatusRejected)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveServiceChangeAlreadyResolved(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newAdminService(db)
	caller := &auth.Claims{UserID: adminID, Role: models.RoleSuperAdmin}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM service_change_requests WHERE id = $1 FOR UPDATE`)).
		WithArgs(requestID).
		WillReturnRows(sqlmock.NewRows(requestColumns()).
			AddRow(requestID, providerID, "Plumber", "Electrician", models.RequestStatusApproved, time.Now()))
	mock.ExpectRollback()

	err := svc.ResolveServiceChange(context.Background(), caller, requestID, models.RequestStatusRejected)

	var apiErr *apperrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.StatusCode)
	assert.Equal(t, "request_resolved", apiErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveServiceChangeInvalidDecision(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newAdminService(db)
	caller := &auth.Claims{UserID: adminID, Role: models.RoleSuperAdmin}

	err := svc.ResolveServiceChange(context.Background(), caller, requestID, "MAYBE")

	var apiErr *apperrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.StatusCode)
	assert.Equal(t, "invalid_decision", apiErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveServiceChangeOutOfRegion(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newAdminService(db)
	caller := &auth.Claims{UserID: adminID, Role: models.RoleAdmin}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM service_change_requests WHERE id = $1 FOR UPDATE`)).
		WithArgs(requestID).
		WillReturnRows(pendingRequestRow())
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM providers WHERE id = $1 FOR UPDATE`)).
		WithArgs(providerID).
		WillReturnRows(providerRow("Piazza, Addis Ababa"))
	expectAdminLookup(mock, "Bole")
	mock.ExpectRollback()

	err := svc.ResolveServiceChange(context.Background(), caller, requestID, models.RequestStatusApproved)

	var apiErr *apperrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 403, apiErr.StatusCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListProvidersAdminScopedToRegion(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newAdminService(db)
	caller := &auth.Claims{UserID: adminID, Role: models.RoleAdmin}

	expectAdminLookup(mock, "Bole")
	mock.ExpectQuery(`SELECT p\.\*, u\.name, u\.email`).
		WithArgs("%Bole%").
		WillReturnRows(sqlmock.NewRows(listingColumns()).
			AddRow(providerID, providerUser, "Plumber", "Bole, Addis Ababa", "0911000000", "", models.ProviderStatusApproved, 4.5, time.Now(), time.Now(), "Dawit", "dawit@example.com"))

	listings, err := svc.ListProviders(context.Background(), caller, "")

	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "Bole, Addis Ababa", listings[0].Location)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListProvidersAdminWithoutRegionSeesNothing(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newAdminService(db)
	caller := &auth.Claims{UserID: adminID, Role: models.RoleAdmin}

	// Only the region lookup runs; the listing query is skipped entirely.
	expectAdminLookup(mock, nil)

	listings, err := svc.ListProviders(context.Background(), caller, "")

	require.NoError(t, err)
	assert.Empty(t, listings)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListProvidersSuperAdminUnfiltered(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newAdminService(db)
	caller := &auth.Claims{UserID: adminID, Role: models.RoleSuperAdmin}

	mock.ExpectQuery(`SELECT p\.\*, u\.name, u\.email`).
		WillReturnRows(sqlmock.NewRows(listingColumns()).
			AddRow(providerID, providerUser, "Plumber", "Bole, Addis Ababa", "0911000000", "", models.ProviderStatusApproved, 4.5, time.Now(), time.Now(), "Dawit", "dawit@example.com").
			AddRow("55555555-5555-5555-5555-555555555555", "66666666-6666-6666-6666-666666666666", "Electrician", "Piazza, Addis Ababa", "0911000001", "", models.ProviderStatusPending, 0.0, time.Now(), time.Now(), "Hanna", "hanna@example.com"))

	listings, err := svc.ListProviders(context.Background(), caller, "")

	require.NoError(t, err)
	assert.Len(t, listings, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListProvidersSuperAdminWithExplicitFilter(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newAdminService(db)
	caller := &auth.Claims{UserID: adminID, Role: models.RoleSuperAdmin}

	// No region lookup for super admins; the query parameter narrows directly.
	mock.ExpectQuery(`SELECT p\.\*, u\.name, u\.email`).
		WithArgs("%Piazza%").
		WillReturnRows(sqlmock.NewRows(listingColumns()))

	_, err := svc.ListProviders(context.Background(), caller, "Piazza")

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListUsersAdminRestrictedToCustomerAndProvider(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newAdminService(db)
	caller := &auth.Claims{UserID: adminID, Role: models.RoleAdmin}

	expectAdminLookup(mock, "Bole")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM users WHERE 1 = 1 AND region = $1 AND role IN ($2, $3)`)).
		WithArgs("Bole", models.RoleCustomer, models.RoleProvider).
		WillReturnRows(sqlmock.NewRows(userColumns()))

	_, err := svc.ListUsers(context.Background(), caller, "ignored-filter", "")

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListUsersAdminCannotRequestAdminRole(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newAdminService(db)
	caller := &auth.Claims{UserID: adminID, Role: models.RoleAdmin}

	expectAdminLookup(mock, "Bole")
	// Asking for role=admin falls back to the customer/provider restriction.
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM users WHERE 1 = 1 AND region = $1 AND role IN ($2, $3)`)).
		WithArgs("Bole", models.RoleCustomer, models.RoleProvider).
		WillReturnRows(sqlmock.NewRows(userColumns()))

	_, err := svc.ListUsers(context.Background(), caller, "", models.RoleAdmin)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAdminDuplicateEmail(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newAdminService(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM users WHERE email = $1`)).
		WithArgs("taken@example.com").
		WillReturnRows(adminRow("Bole"))

	err := svc.CreateAdmin(context.Background(), &models.CreateAdminRequest{
		Name:     "New Admin",
		Email:    "Taken@Example.com",
		Password: "secret123",
		Region:   "Bole",
	})

	var apiErr *apperrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.StatusCode)
	assert.Equal(t, "email_taken", apiErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAdminRegistersRegion(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newAdminService(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM users WHERE email = $1`)).
		WithArgs("new@example.com").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs(sqlmock.AnyArg(), "New Admin", "new@example.com", sqlmock.AnyArg(),
			models.RoleAdmin, "Bole", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO regions (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`)).
		WithArgs("Bole").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := svc.CreateAdmin(context.Background(), &models.CreateAdminRequest{
		Name:     "New Admin",
		Email:    "new@example.com",
		Password: "secret123",
		Region:   "Bole",
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
