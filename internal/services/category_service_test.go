package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hallbook/hallbook-api/internal/models"
)

func TestCreateCategoryValidation(t *testing.T) {
	env := newTestEnv()
	svc := NewCategoryService(env.repos)

	_, err := svc.Create(context.Background(), testOrgID, CategoryInput{
		Name: "", CategoryType: models.CategoryTypeIncome,
	})
	assert.True(t, IsValidation(err))

	_, err = svc.Create(context.Background(), testOrgID, CategoryInput{
		Name: "Misc", CategoryType: "transfer",
	})
	assert.True(t, IsValidation(err))

	_, err = svc.Create(context.Background(), testOrgID, CategoryInput{
		Name: "Misc", Kind: "donation", CategoryType: models.CategoryTypeIncome,
	})
	assert.True(t, IsValidation(err))

	// Kind defaults to other when omitted.
	category, err := svc.Create(context.Background(), testOrgID, CategoryInput{
		Name: "Decoration", CategoryType: models.CategoryTypeIncome,
	})
	require.NoError(t, err)
	assert.Equal(t, models.CategoryKindOther, category.Kind)
	require.NotNil(t, category.OrganizationID)
	assert.Equal(t, testOrgID, *category.OrganizationID)
}

func TestDefaultCategoriesAreProtected(t *testing.T) {
	env := newTestEnv()
	svc := NewCategoryService(env.repos)
	rentID := env.categories.byKind(models.CategoryKindRent, models.CategoryTypeIncome)
	require.NotZero(t, rentID)

	_, err := svc.Update(context.Background(), testOrgID, rentID, CategoryInput{Name: "Hall Rent"})
	assert.ErrorIs(t, err, ErrForbidden)

	err = svc.Delete(context.Background(), testOrgID, rentID)
	assert.ErrorIs(t, err, ErrForbidden)

	// The row is still there for every organization.
	_, err = svc.List(context.Background(), testOrgID, models.CategoryTypeIncome)
	assert.NoError(t, err)
	assert.NotZero(t, env.categories.byKind(models.CategoryKindRent, models.CategoryTypeIncome))
}

func TestOwnCategoryLifecycle(t *testing.T) {
	env := newTestEnv()
	svc := NewCategoryService(env.repos)

	category, err := svc.Create(context.Background(), testOrgID, CategoryInput{
		Name: "Decoration", Kind: models.CategoryKindSecondaryIncome, CategoryType: models.CategoryTypeIncome,
	})
	require.NoError(t, err)

	renamed, err := svc.Update(context.Background(), testOrgID, category.ID, CategoryInput{Name: "Stage Decoration"})
	require.NoError(t, err)
	assert.Equal(t, "Stage Decoration", renamed.Name)

	require.NoError(t, svc.Delete(context.Background(), testOrgID, category.ID))
	err = svc.Delete(context.Background(), testOrgID, category.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
