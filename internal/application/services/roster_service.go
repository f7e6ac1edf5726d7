package services

import (
	"context"
	"sort"

	"github.com/Laisfaustt/ProjetoCamali/internal/domain/user"
	"github.com/Laisfaustt/ProjetoCamali/internal/infrastructure/observability/logging"
	"github.com/Laisfaustt/ProjetoCamali/internal/infrastructure/persistence/docstore"
)

// RosterService serves the advisor's view of the student body.
type RosterService struct {
	store  docstore.Store
	logger *logging.ChanneledLogger
}

// NewRosterService creates a new roster service.
func NewRosterService(store docstore.Store, logger *logging.ChanneledLogger) *RosterService {
	return &RosterService{store: store, logger: logger}
}

// Students lists every student profile sorted by display name.
func (r *RosterService) Students(ctx context.Context) ([]user.Profile, error) {
	docs, err := r.store.Query(ctx, studentQuery())
	if err != nil {
		r.logger.Auth().Error("Roster fetch failed", "error", err)
		return nil, err
	}
	return profilesFromDocs(docs), nil
}

// Subscribe delivers the full student roster on every change to the users
// collection. A failed requery passes the error through with a nil roster.
func (r *RosterService) Subscribe(fn func(students []user.Profile, err error)) (docstore.Disposer, error) {
	return r.store.Subscribe(studentQuery(), func(docs []docstore.Document, err error) {
		if err != nil {
			fn(nil, err)
			return
		}
		fn(profilesFromDocs(docs), nil)
	})
}

func studentQuery() docstore.Query {
	return docstore.Query{
		Collection: userCollection,
		Equals:     []docstore.Filter{{Field: "tipo", Value: string(user.RoleStudent)}},
	}
}

func profilesFromDocs(docs []docstore.Document) []user.Profile {
	students := make([]user.Profile, 0, len(docs))
	for _, d := range docs {
		students = append(students, user.FromFields(d.ID, d.Fields))
	}
	sort.SliceStable(students, func(i, j int) bool {
		return students[i].DisplayName() < students[j].DisplayName()
	})
	return students
}
