package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchTerms(t *testing.T) {
	assert.Nil(t, SearchTerms(""))
	assert.Equal(t, []string{"Film Forum"}, SearchTerms(" Film Forum "))
	assert.Equal(t, []string{"new york", "NY"}, SearchTerms("new york"))
	assert.Equal(t, []string{"District of Columbia", "DC"}, SearchTerms("District of Columbia"))

	abbr, ok := StateAbbr("OREGON")
	assert.True(t, ok)
	assert.Equal(t, "OR", abbr)
	_, ok = StateAbbr("Portland")
	assert.False(t, ok)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `a\%b\_c\\d`, escapeLike(`a%b_c\d`))
}

func TestTheaterRepo_Count(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("SELECT COUNT").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(488))

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(488), n)
}

func TestTheaterRepo_Sample(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("SELECT \\* FROM theaters LIMIT").
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"slug", "name", "screens"}).
			AddRow([]byte("cinema-21"), []byte("Cinema 21"), int64(3)))

	rows, cols, err := repo.Sample(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"slug", "name", "screens"}, cols)
	require.Len(t, rows, 1)
	assert.Equal(t, "cinema-21", rows[0]["slug"])
	assert.Equal(t, int64(3), rows[0]["screens"])
}

func TestTheaterRepo_CountByState(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("GROUP BY state").
		WillReturnRows(sqlmock.NewRows([]string{"state", "n"}).AddRow("CA", 61).AddRow("NY", 40))

	got, err := repo.CountByState(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []StateCount{{"CA", 61}, {"NY", 40}}, got)
}

func TestTheaterRepo_Completeness(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("FROM theaters").
		WillReturnRows(sqlmock.NewRows([]string{"total", "d", "w", "y", "s"}).AddRow(10, 4, 1, 6, 2))

	got, err := repo.Completeness(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Completeness{Total: 10, MissingDescription: 4, MissingWebsite: 1, MissingYear: 6, MissingScreens: 2}, got)
}

func TestTheaterRepo_ListRefs(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("ORDER BY slug LIMIT \\?").
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"slug", "name", "city", "state"}).
			AddRow("a", "A", "Austin", "TX").AddRow("b", "B", "Boston", "MA"))

	got, err := repo.ListRefs(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []SlugRef{{"a", "A", "Austin", "TX"}, {"b", "B", "Boston", "MA"}}, got)

	mock.ExpectQuery("ORDER BY slug$").
		WillReturnRows(sqlmock.NewRows([]string{"slug", "name", "city", "state"}))
	_, err = repo.ListRefs(context.Background(), 0)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
