package valuation

import (
	"errors"
	"testing"

	"dealscout/config"
	"dealscout/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestComparableSearch_Tiers(t *testing.T) {
	search := NewComparableSearch(&MockStore{}, config.Default(), logrus.New())

	tests := []struct {
		name      string
		maxRadius float64
		expected  []float64
	}{
		{"Full sequence", 10, []float64{0.5, 1, 2, 5, 10}},
		{"Radius between tiers", 3, []float64{0.5, 1, 2, 3}},
		{"Radius below first tier", 0.25, []float64{0.25}},
		{"Zero falls back to configured max", 0, []float64{0.5, 1, 2, 5, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, search.Tiers(tt.maxRadius))
		})
	}
}

func TestComparableSearch_ExpandsUntilMinComps(t *testing.T) {
	store := &MockStore{}
	subject := testSubject()

	store.On("FindClosedComparables", subject, 0.5, 15).
		Return([]models.ComparableSale{testComp("A", 300000, 0.3, 1)}, nil).Once()
	store.On("FindClosedComparables", subject, 1.0, 15).
		Return([]models.ComparableSale{testComp("A", 300000, 0.3, 1), testComp("B", 310000, 0.8, 2)}, nil).Once()
	store.On("FindClosedComparables", subject, 2.0, 15).
		Return([]models.ComparableSale{
			testComp("C", 320000, 1.5, 2),
			testComp("A", 300000, 0.3, 1),
			testComp("B", 310000, 0.8, 2),
		}, nil).Once()

	search := NewComparableSearch(store, config.Default(), logrus.New())
	comps, err := search.Search(subject, 10, 15)
	require.NoError(t, err)

	require.Len(t, comps, 3)
	assert.Equal(t, "A", comps[0].ListingID)
	assert.Equal(t, "B", comps[1].ListingID)
	assert.Equal(t, "C", comps[2].ListingID)
	store.AssertExpectations(t)
	store.AssertNotCalled(t, "FindClosedComparables", subject, 5.0, 15)
}

func TestComparableSearch_ExhaustsTiers(t *testing.T) {
	store := &MockStore{}
	subject := testSubject()
	store.On("FindClosedComparables", subject, mock.Anything, 15).
		Return([]models.ComparableSale{testComp("A", 300000, 0.3, 1)}, nil)

	search := NewComparableSearch(store, config.Default(), logrus.New())
	comps, err := search.Search(subject, 10, 0)
	require.NoError(t, err)

	assert.Len(t, comps, 1)
	store.AssertNumberOfCalls(t, "FindClosedComparables", 5)
}

func TestComparableSearch_LimitCappedAtMaxComps(t *testing.T) {
	store := &MockStore{}
	subject := testSubject()
	store.On("FindClosedComparables", subject, 0.5, 15).
		Return([]models.ComparableSale{
			testComp("A", 300000, 0.1, 1),
			testComp("B", 300000, 0.2, 1),
			testComp("C", 300000, 0.3, 1),
		}, nil)

	search := NewComparableSearch(store, config.Default(), logrus.New())
	_, err := search.Search(subject, 10, 100)
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestComparableSearch_MissingCoordinates(t *testing.T) {
	store := &MockStore{}
	subject := testSubject()
	subject.Latitude = nil

	search := NewComparableSearch(store, config.Default(), logrus.New())
	comps, err := search.Search(subject, 10, 15)
	require.NoError(t, err)

	assert.NotNil(t, comps)
	assert.Empty(t, comps)
	store.AssertNotCalled(t, "FindClosedComparables", mock.Anything, mock.Anything, mock.Anything)
}

func TestComparableSearch_StoreError(t *testing.T) {
	store := &MockStore{}
	subject := testSubject()
	store.On("FindClosedComparables", subject, 0.5, 15).
		Return([]models.ComparableSale(nil), errors.New("disk I/O error"))

	search := NewComparableSearch(store, config.Default(), logrus.New())
	_, err := search.Search(subject, 10, 15)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to find comparables within 0.50 miles")
}
