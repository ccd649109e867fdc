package catalog

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func year(y int) *int { return &y }

func titles(books []Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.Title
	}
	return out
}

func names(authors []Author) []string {
	out := make([]string, len(authors))
	for i, a := range authors {
		out[i] = a.Name
	}
	return out
}

func TestService_ListBooks(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo)
	ctx := context.Background()

	t.Run("sorted by title", func(t *testing.T) {
		mockRepo.EXPECT().ListBooks(gomock.Any()).Return([]Book{
			{Title: "Zorba"}, {Title: "Alpha"}, {Title: "Mango"},
		}, nil)

		books, err := service.ListBooks(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Alpha", "Mango", "Zorba"}, titles(books))
	})

	t.Run("empty store", func(t *testing.T) {
		mockRepo.EXPECT().ListBooks(gomock.Any()).Return([]Book{}, nil)

		books, err := service.ListBooks(ctx)
		require.NoError(t, err)
		assert.Empty(t, books)
	})

	t.Run("error", func(t *testing.T) {
		mockRepo.EXPECT().ListBooks(gomock.Any()).Return(nil, errors.New("db error"))

		_, err := service.ListBooks(ctx)
		assert.Error(t, err)
	})
}

func TestService_ListAuthors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo)

	mockRepo.EXPECT().ListAuthors(gomock.Any()).Return([]Author{
		{Name: "Twain, Mark"}, {Name: "Austen, Jane"}, {Name: "Shelley, Mary"},
	}, nil)

	authors, err := service.ListAuthors(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Austen, Jane", "Shelley, Mary", "Twain, Mark"}, names(authors))
}

func TestService_AuthorsAliveIn(t *testing.T) {
	ctx := context.Background()
	bounded := Author{Name: "Bounded", BirthYear: year(1900), DeathYear: year(1950)}
	living := Author{Name: "Living", BirthYear: year(1900)}

	cases := []struct {
		year int
		want bool
	}{
		{1899, false},
		{1900, true},
		{1925, true},
		{1950, true},
		{1951, false},
	}

	for _, tc := range cases {
		t.Run(strconv.Itoa(tc.year), func(t *testing.T) {
			repo := NewMemoryRepo()
			require.NoError(t, repo.SaveAuthor(ctx, &bounded))
			require.NoError(t, repo.SaveAuthor(ctx, &living))

			authors, err := NewService(repo).AuthorsAliveIn(ctx, tc.year)
			if tc.want {
				require.NoError(t, err)
				assert.Equal(t, []string{"Bounded"}, names(authors))
			} else {
				assert.ErrorIs(t, err, ErrNoAuthorsAlive)
			}
		})
	}

	t.Run("sorted by name", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockRepo := NewMockRepository(ctrl)
		mockRepo.EXPECT().FindAuthorsAliveInYear(gomock.Any(), 1830).Return([]Author{
			{Name: "Poe", BirthYear: year(1809), DeathYear: year(1849)},
			{Name: "Goethe", BirthYear: year(1749), DeathYear: year(1832)},
		}, nil)

		authors, err := NewService(mockRepo).AuthorsAliveIn(ctx, 1830)
		require.NoError(t, err)
		assert.Equal(t, []string{"Goethe", "Poe"}, names(authors))
	})

	t.Run("negative year is legal input", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockRepo := NewMockRepository(ctrl)
		mockRepo.EXPECT().FindAuthorsAliveInYear(gomock.Any(), -430).Return([]Author{
			{Name: "Xenophon", BirthYear: year(-430), DeathYear: year(-354)},
			{Name: "Plato", BirthYear: year(-428), DeathYear: year(-348)},
		}, nil)

		authors, err := NewService(mockRepo).AuthorsAliveIn(ctx, -430)
		require.NoError(t, err)
		assert.Equal(t, []string{"Xenophon"}, names(authors))
	})
}

func TestService_BooksByLanguage(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	for _, b := range []Book{
		{Title: "Pride and Prejudice", Languages: []string{"en"}},
		{Title: "Don Quijote", Languages: []string{"es"}},
		{Title: "Candide", Languages: []string{"fr", "en"}},
	} {
		b := b
		require.NoError(t, repo.SaveBook(ctx, &b))
	}
	service := NewService(repo)

	books, err := service.BooksByLanguage(ctx, "en")
	require.NoError(t, err)
	assert.Equal(t, []string{"Candide", "Pride and Prejudice"}, titles(books))

	books, err = service.BooksByLanguage(ctx, "e")
	require.NoError(t, err)
	assert.Equal(t, []string{"Candide", "Don Quijote", "Pride and Prejudice"}, titles(books))

	_, err = service.BooksByLanguage(ctx, "pt")
	assert.ErrorIs(t, err, ErrNoBooksInLanguage)

	_, err = service.BooksByLanguage(ctx, "EN")
	assert.ErrorIs(t, err, ErrNoBooksInLanguage)

	// Candide is ["fr", "en"]; a filter must not straddle two codes.
	_, err = service.BooksByLanguage(ctx, "r,e")
	assert.ErrorIs(t, err, ErrNoBooksInLanguage)

	_, err = service.BooksByLanguage(ctx, ",")
	assert.ErrorIs(t, err, ErrNoBooksInLanguage)
}

func TestService_Stats(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)

	mockRepo.EXPECT().CountBooks(gomock.Any()).Return(3, nil)
	mockRepo.EXPECT().CountAuthors(gomock.Any()).Return(2, nil)

	stats, err := NewService(mockRepo).Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Stats{Books: 3, Authors: 2}, stats)
}
