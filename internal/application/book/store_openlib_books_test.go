package book

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookcatalog/internal/infrastructure/openlibrary"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/gormdb"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

func edition(code string, pages *int, authorKeys, workKeys []string) *openlibrary.Edition {
	ed := &openlibrary.Edition{Key: "/books/" + code, Title: "Title " + code, NumberOfPages: pages}
	if authorKeys != nil {
		ed.Authors = []openlibrary.Ref{}
		for _, k := range authorKeys {
			ed.Authors = append(ed.Authors, openlibrary.Ref{Key: k})
		}
	}
	if workKeys != nil {
		ed.Works = []openlibrary.Ref{}
		for _, k := range workKeys {
			ed.Works = append(ed.Works, openlibrary.Ref{Key: k})
		}
	}
	return ed
}

func TestStoreOpenLibBooks_PartialFailure(t *testing.T) {
	env := newTestEnv(t, nil)
	source := new(mockSource)
	ctx := context.Background()

	fetchErr := apperrors.WrapCode(apperrors.ErrCodeFetchError, errors.New("404"), "404 Not Found for url: https://openlibrary.org/books/Y.json")
	source.On("GetEdition", mock.Anything, "X").Return(edition("X", intPtr(120), []string{"/authors/A1"}, []string{"/works/W1"}), nil)
	source.On("GetEdition", mock.Anything, "Y").Return(nil, fetchErr)
	source.On("GetAuthor", mock.Anything, "/authors/A1").Return(&openlibrary.Author{Key: "/authors/A1", Name: "Name1"}, nil)
	source.On("GetWork", mock.Anything, "/works/W1").Return(&openlibrary.Work{Key: "/works/W1", Title: "Work1"}, nil)

	uc := NewStoreOpenLibBooksUseCase(source, env.importer, env.logger)
	resp := uc.Execute(ctx, StoreOpenLibBooksRequest{Codes: []string{"X", "Y"}})

	assert.Equal(t, []string{"X"}, resp.Added)
	require.Len(t, resp.Skipped, 1)
	assert.Equal(t, "Y", resp.Skipped[0].Code)
	assert.Equal(t, "Skipped because of: 404 Not Found for url: https://openlibrary.org/books/Y.json", resp.Skipped[0].Reason)

	views, err := env.lister.Execute(ctx)
	require.NoError(t, err)
	require.Len(t, views.Books, 1)
	assert.Equal(t, "X", views.Books[0].ID)
	assert.Equal(t, "A1", views.Books[0].Authors[0].ID)
}

func TestStoreOpenLibBooks_MissingFieldsSkipsWithoutFetchingRefs(t *testing.T) {
	env := newTestEnv(t, nil)
	source := new(mockSource)
	source.On("GetEdition", mock.Anything, "X").Return(edition("X", nil, nil, []string{"/works/W1"}), nil)

	resp := NewStoreOpenLibBooksUseCase(source, env.importer, env.logger).
		Execute(context.Background(), StoreOpenLibBooksRequest{Codes: []string{"X"}})

	assert.Empty(t, resp.Added)
	require.Len(t, resp.Skipped, 1)
	assert.Equal(t, "Skipped because of: Missing fields", resp.Skipped[0].Reason)
	source.AssertNotCalled(t, "GetWork", mock.Anything, mock.Anything)
}

func TestStoreOpenLibBooks_DuplicateCodeSkipped(t *testing.T) {
	env := newTestEnv(t, nil)
	source := new(mockSource)
	source.On("GetEdition", mock.Anything, "X").Return(edition("X", nil, []string{}, []string{}), nil)

	resp := NewStoreOpenLibBooksUseCase(source, env.importer, env.logger).
		Execute(context.Background(), StoreOpenLibBooksRequest{Codes: []string{"X", "X"}})

	assert.Equal(t, []string{"X"}, resp.Added)
	require.Len(t, resp.Skipped, 1)
	assert.Equal(t, "Skipped because of: Book X already in the database", resp.Skipped[0].Reason)
	assert.EqualValues(t, 1, env.count(t, &gormdb.BookModel{}))
}

func TestStoreOpenLibBooks_RefsFetchedOncePerBook(t *testing.T) {
	env := newTestEnv(t, nil)
	source := new(mockSource)
	source.On("GetEdition", mock.Anything, "X").
		Return(edition("X", nil, []string{"/authors/A1", "/authors/A1"}, []string{"/works/W1"}), nil)
	source.On("GetAuthor", mock.Anything, "/authors/A1").
		Return(&openlibrary.Author{Key: "/authors/A1", Name: "Name1"}, nil).Once()
	source.On("GetWork", mock.Anything, "/works/W1").
		Return(&openlibrary.Work{Key: "/works/W1", Title: "Work1"}, nil).Once()

	resp := NewStoreOpenLibBooksUseCase(source, env.importer, env.logger).
		Execute(context.Background(), StoreOpenLibBooksRequest{Codes: []string{"X"}})

	assert.Equal(t, []string{"X"}, resp.Added)
	source.AssertExpectations(t)
	assert.EqualValues(t, 1, env.count(t, &gormdb.BookAuthorModel{}))
}

func TestStoreOpenLibBooks_AuthorFetchFailureSkipsBook(t *testing.T) {
	env := newTestEnv(t, nil)
	source := new(mockSource)
	source.On("GetEdition", mock.Anything, "X").
		Return(edition("X", nil, []string{"/authors/A1"}, []string{"/works/W1"}), nil)
	source.On("GetAuthor", mock.Anything, "/authors/A1").Return(nil, errors.New("connection reset"))

	resp := NewStoreOpenLibBooksUseCase(source, env.importer, env.logger).
		Execute(context.Background(), StoreOpenLibBooksRequest{Codes: []string{"X"}})

	assert.Empty(t, resp.Added)
	require.Len(t, resp.Skipped, 1)
	assert.Equal(t, "Skipped because of: connection reset", resp.Skipped[0].Reason)
	assert.Zero(t, env.count(t, &gormdb.BookModel{}))
}

func TestStoreOpenLibBooks_EmptyCodes(t *testing.T) {
	env := newTestEnv(t, nil)
	resp := NewStoreOpenLibBooksUseCase(new(mockSource), env.importer, env.logger).
		Execute(context.Background(), StoreOpenLibBooksRequest{})

	assert.NotNil(t, resp.Added)
	assert.NotNil(t, resp.Skipped)
}
