package services

import (
	"context"
	"testing"

	"wasteflow-backend/internal/apperr"
	"wasteflow-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mediumPackage() *models.Package {
	return &models.Package{ID: "pkg-family", Name: "Family", Size: models.BinSizeMedium, BinNum: 2, Price: 50}
}

func TestAllocatorAssignsExactCount(t *testing.T) {
	store := &fakeAllocatorStore{pool: map[string]int{models.BinSizeMedium: 5}}
	allocator := NewAllocator(store, false)
	homeowner := &models.User{ID: "ho-1", IsApproved: true}

	bins, err := allocator.Allocate(context.Background(), homeowner, mediumPackage(), nil)
	require.NoError(t, err)

	assert.Len(t, bins, 2)
	assert.Equal(t, "ho-1", store.claimedBy)
	assert.Equal(t, models.BinSizeMedium, store.claimedSize)
	assert.Equal(t, 3, store.pool[models.BinSizeMedium])
	require.NotNil(t, store.packageSet)
	assert.Equal(t, "pkg-family", *store.packageSet)
}

func TestAllocatorShortfallAssignsNothing(t *testing.T) {
	store := &fakeAllocatorStore{pool: map[string]int{models.BinSizeMedium: 1}}
	allocator := NewAllocator(store, false)

	_, err := allocator.Allocate(context.Background(), &models.User{ID: "ho-1", IsApproved: true}, mediumPackage(), nil)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeCapacity))
	assert.Equal(t, 1, store.pool[models.BinSizeMedium], "shortfall must not consume any bins")
	assert.Nil(t, store.packageSet)
}

func TestAllocatorRecordsPaymentWithClaim(t *testing.T) {
	store := &fakeAllocatorStore{pool: map[string]int{models.BinSizeMedium: 5}}
	allocator := NewAllocator(store, false)
	payment := &models.Payment{ID: "pay-1", HomeownerID: "ho-1", PaymentType: models.PaymentTypeBin}

	_, err := allocator.Allocate(context.Background(), &models.User{ID: "ho-1", IsApproved: true}, mediumPackage(), payment)
	require.NoError(t, err)
	assert.Same(t, payment, store.payment, "payment must ride the same store operation as the claim")
}

func TestAllocatorShortfallRecordsNoPayment(t *testing.T) {
	store := &fakeAllocatorStore{pool: map[string]int{models.BinSizeMedium: 1}}
	allocator := NewAllocator(store, false)
	payment := &models.Payment{ID: "pay-1", HomeownerID: "ho-1", PaymentType: models.PaymentTypeBin}

	_, err := allocator.Allocate(context.Background(), &models.User{ID: "ho-1", IsApproved: true}, mediumPackage(), payment)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeCapacity))
	assert.Nil(t, store.payment, "a failed claim must not leave a settled payment behind")
}

func TestAllocatorSuspendedAccount(t *testing.T) {
	store := &fakeAllocatorStore{pool: map[string]int{models.BinSizeMedium: 5}}
	allocator := NewAllocator(store, false)

	_, err := allocator.Allocate(context.Background(), &models.User{ID: "ho-1", IsSuspended: true}, mediumPackage(), nil)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeForbidden))
}

func TestAllocatorUnapprovedAccount(t *testing.T) {
	store := &fakeAllocatorStore{pool: map[string]int{models.BinSizeMedium: 5}}
	allocator := NewAllocator(store, false)

	_, err := allocator.Allocate(context.Background(), &models.User{ID: "ho-1"}, mediumPackage(), nil)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeForbidden))
}

func TestAllocatorSecondPackageBlockedByDefault(t *testing.T) {
	store := &fakeAllocatorStore{pool: map[string]int{models.BinSizeMedium: 5}}
	allocator := NewAllocator(store, false)
	oldPkg := "pkg-starter"

	_, err := allocator.Allocate(context.Background(), &models.User{ID: "ho-1", IsApproved: true, PackageID: &oldPkg}, mediumPackage(), nil)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeConflict))
	assert.False(t, store.released)
}

func TestAllocatorReleaseEnabledSwitchesPackage(t *testing.T) {
	store := &fakeAllocatorStore{pool: map[string]int{models.BinSizeMedium: 5}}
	allocator := NewAllocator(store, true)
	oldPkg := "pkg-starter"

	bins, err := allocator.Allocate(context.Background(), &models.User{ID: "ho-1", IsApproved: true, PackageID: &oldPkg}, mediumPackage(), nil)
	require.NoError(t, err)
	assert.Len(t, bins, 2)
	assert.True(t, store.released)
	require.NotNil(t, store.packageSet)
	assert.Equal(t, "pkg-family", *store.packageSet)
}

func TestAllocatorShortfallRollsBackRelease(t *testing.T) {
	store := &fakeAllocatorStore{pool: map[string]int{models.BinSizeMedium: 1}}
	allocator := NewAllocator(store, true)
	oldPkg := "pkg-starter"

	_, err := allocator.Allocate(context.Background(), &models.User{ID: "ho-1", IsApproved: true, PackageID: &oldPkg}, mediumPackage(), nil)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeCapacity))

	// The homeowner must keep their old bins and package when the new claim
	// comes up short.
	assert.False(t, store.released, "shortfall must not leave the old bins released")
	assert.Nil(t, store.packageSet)
	assert.Equal(t, 1, store.pool[models.BinSizeMedium])
}

func TestAllocatorReleaseBlockedDuringActivePickup(t *testing.T) {
	store := &fakeAllocatorStore{pool: map[string]int{models.BinSizeMedium: 5}, active: true}
	allocator := NewAllocator(store, true)
	oldPkg := "pkg-starter"

	_, err := allocator.Allocate(context.Background(), &models.User{ID: "ho-1", IsApproved: true, PackageID: &oldPkg}, mediumPackage(), nil)
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeConflict))
	assert.False(t, store.released)
}
