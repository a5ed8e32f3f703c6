package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookora/bookora/models"
)

func TestCreateBlockValidation(t *testing.T) {
	dbx := newTestDB(t)
	business, staff, _ := seedSalon(t, dbx)
	tenant := ownerContext(business)

	t.Run("inverted range", func(t *testing.T) {
		_, err := CreateBlock(dbx, tenant, &staff.ID,
			ts(t, testDate+" 13:00"), ts(t, testDate+" 13:00"), "")
		de, ok := AsError(err)
		require.True(t, ok)
		assert.Equal(t, CodeInvalidRange, de.Code)
	})

	t.Run("span over two weeks", func(t *testing.T) {
		_, err := CreateBlock(dbx, tenant, &staff.ID,
			ts(t, "2026-09-01 00:00"), ts(t, "2026-09-16 00:00"), "sabbatical")
		de, ok := AsError(err)
		require.True(t, ok)
		assert.Equal(t, CodeRangeTooLarge, de.Code)
	})

	t.Run("foreign staff", func(t *testing.T) {
		other := models.User{Name: "Lilit", Email: "lilit@other.test", Role: models.RoleStaff, BusinessID: business.ID + 3, IsActive: true}
		require.NoError(t, dbx.Create(&other).Error)

		_, err := CreateBlock(dbx, tenant, &other.ID,
			ts(t, testDate+" 10:00"), ts(t, testDate+" 11:00"), "")
		de, ok := AsError(err)
		require.True(t, ok)
		assert.Equal(t, CodeTenantMismatch, de.Code)
	})
}

func TestCreateBlockOverlapScope(t *testing.T) {
	dbx := newTestDB(t)
	business, staff, _ := seedSalon(t, dbx)
	colleague := models.User{Name: "Sona", Email: "sona@cutandgo.test", Role: models.RoleStaff, BusinessID: business.ID, IsActive: true}
	require.NoError(t, dbx.Create(&colleague).Error)
	tenant := ownerContext(business)

	_, err := CreateBlock(dbx, tenant, &staff.ID,
		ts(t, testDate+" 10:00"), ts(t, testDate+" 12:00"), "vacation")
	require.NoError(t, err)

	t.Run("same staff overlap rejected", func(t *testing.T) {
		_, err := CreateBlock(dbx, tenant, &staff.ID,
			ts(t, testDate+" 11:00"), ts(t, testDate+" 13:00"), "")
		de, ok := AsError(err)
		require.True(t, ok)
		assert.Equal(t, CodeOverlapExists, de.Code)
	})

	t.Run("other staff same interval allowed", func(t *testing.T) {
		_, err := CreateBlock(dbx, tenant, &colleague.ID,
			ts(t, testDate+" 11:00"), ts(t, testDate+" 13:00"), "")
		assert.NoError(t, err)
	})

	t.Run("business wide overlap rejected", func(t *testing.T) {
		_, err := CreateBlock(dbx, tenant, nil,
			ts(t, testDate+" 11:30"), ts(t, testDate+" 12:30"), "renovation")
		de, ok := AsError(err)
		require.True(t, ok)
		assert.Equal(t, CodeOverlapExists, de.Code)
	})

	t.Run("touching interval allowed", func(t *testing.T) {
		_, err := CreateBlock(dbx, tenant, &staff.ID,
			ts(t, testDate+" 12:00"), ts(t, testDate+" 13:00"), "")
		assert.NoError(t, err)
	})
}

func TestIsBlockedAppliesBusinessWideBlocks(t *testing.T) {
	dbx := newTestDB(t)
	business, staff, _ := seedSalon(t, dbx)
	_, err := CreateBlock(dbx, ownerContext(business), nil,
		ts(t, testDate+" 12:00"), ts(t, testDate+" 13:00"), "renovation")
	require.NoError(t, err)

	blocked, err := IsBlocked(dbx, business.ID, staff.ID, ts(t, testDate+" 12:30"), ts(t, testDate+" 13:30"))
	require.NoError(t, err)
	assert.True(t, blocked)

	blocked, err = IsBlocked(dbx, business.ID, staff.ID, ts(t, testDate+" 13:00"), ts(t, testDate+" 14:00"))
	require.NoError(t, err)
	assert.False(t, blocked)
}

func TestDeleteBlockTenantScoped(t *testing.T) {
	dbx := newTestDB(t)
	business, staff, _ := seedSalon(t, dbx)
	block, err := CreateBlock(dbx, ownerContext(business), &staff.ID,
		ts(t, testDate+" 10:00"), ts(t, testDate+" 11:00"), "")
	require.NoError(t, err)

	foreign := models.TenantContext{UserID: 1, BusinessID: business.ID + 10, Role: models.RoleOwner}
	assert.Error(t, DeleteBlock(dbx, foreign, block.ID))

	require.NoError(t, DeleteBlock(dbx, ownerContext(business), block.ID))

	blocked, err := IsBlocked(dbx, business.ID, staff.ID, ts(t, testDate+" 10:00"), ts(t, testDate+" 11:00"))
	require.NoError(t, err)
	assert.False(t, blocked)
}
