package listing

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/imobsites/platform/internal/models"
	"github.com/imobsites/platform/internal/storage"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateListing(ctx context.Context, tenantID int, req models.ListingRequest) (int, error) {
	args := m.Called(ctx, tenantID, req)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) GetListing(ctx context.Context, tenantID, id int) (*models.Listing, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}
func (m *RepoMock) GetPublishedListing(ctx context.Context, tenantID, id int) (*models.Listing, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}
func (m *RepoMock) UpdateListing(ctx context.Context, tenantID, id int, req models.ListingRequest) (int, error) {
	args := m.Called(ctx, tenantID, id, req)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) RemoveListing(ctx context.Context, tenantID, id int) (int, error) {
	args := m.Called(ctx, tenantID, id)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ListListings(ctx context.Context, tenantID int, filter models.ListingFilter, publishedOnly bool) ([]*models.Listing, error) {
	args := m.Called(ctx, tenantID, filter, publishedOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Listing), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestService_Update(t *testing.T) {
	req := models.ListingRequest{Reference: "AP-101", Title: "Apartamento Centro"}

	t.Run("success", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("UpdateListing", mock.Anything, 10, 5, req).Return(1, nil).Once()

		svc := New(repo, newNoopLogger())
		require.NoError(t, svc.Update(context.Background(), 10, 5, req))
		repo.AssertExpectations(t)
	})

	t.Run("listing of another tenant is not found", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("UpdateListing", mock.Anything, 10, 5, req).Return(0, nil).Once()

		svc := New(repo, newNoopLogger())
		err := svc.Update(context.Background(), 10, 5, req)
		require.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestService_Remove(t *testing.T) {
	t.Run("zero rows maps to not found", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("RemoveListing", mock.Anything, 10, 5).Return(0, nil).Once()

		svc := New(repo, newNoopLogger())
		err := svc.Remove(context.Background(), 10, 5)
		require.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestService_List(t *testing.T) {
	listings := []*models.Listing{{ID: 1}, {ID: 2}}

	t.Run("public list is published only with default paging", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("ListListings", mock.Anything, 10,
			models.ListingFilter{Purpose: models.PurposeSale, Limit: defaultPageSize}, true).
			Return(listings, nil).Once()

		svc := New(repo, newNoopLogger())
		got, err := svc.ListPublic(context.Background(), 10, models.ListingFilter{Purpose: models.PurposeSale})
		require.NoError(t, err)
		assert.Len(t, got, 2)
		repo.AssertExpectations(t)
	})

	t.Run("admin list keeps drafts and clamps oversized limit", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("ListListings", mock.Anything, 10,
			models.ListingFilter{Limit: defaultPageSize}, false).
			Return(listings, nil).Once()

		svc := New(repo, newNoopLogger())
		_, err := svc.ListAdmin(context.Background(), 10, models.ListingFilter{Limit: 500})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}
