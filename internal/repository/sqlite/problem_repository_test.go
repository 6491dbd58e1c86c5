package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/Aditya-k24/AlgoPulse/internal/models"
	"github.com/Aditya-k24/AlgoPulse/internal/repository"
	"github.com/Aditya-k24/AlgoPulse/internal/repository/sqlite"
	"github.com/Aditya-k24/AlgoPulse/internal/testutil"
)

type ProblemRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.ProblemRepository
}

func (s *ProblemRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewProblemRepository(s.db)
}

func (s *ProblemRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *ProblemRepositorySuite) insertProblem(title, category, difficulty string) string {
	id, err := s.repo.Upsert(context.Background(), models.Problem{
		Title:      title,
		Category:   category,
		Difficulty: difficulty,
	})
	s.Require().NoError(err)
	return id
}

func (s *ProblemRepositorySuite) TestUpsertAndGet() {
	ctx := context.Background()
	id := s.insertProblem("Two Sum", "arrays", "easy")
	s.Require().NotEmpty(id)

	p, err := s.repo.Get(ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(p)
	s.Assert().Equal("Two Sum", p.Title)
	s.Assert().Equal("arrays", p.Category)
	s.Assert().Equal("easy", p.Difficulty)
}

func (s *ProblemRepositorySuite) TestGet_Missing() {
	p, err := s.repo.Get(context.Background(), "missing-id")
	s.Require().NoError(err)
	s.Assert().Nil(p)
}

func (s *ProblemRepositorySuite) TestUpsert_DeduplicatesByTitle() {
	first := s.insertProblem("Two Sum", "arrays", "easy")
	second := s.insertProblem("Two Sum", "hashing", "medium")

	s.Assert().Equal(first, second, "same title must resolve to the same problem")

	count, err := s.repo.Count(context.Background(), models.ProblemFilter{})
	s.Require().NoError(err)
	s.Assert().Equal(1, count)
}

func (s *ProblemRepositorySuite) TestBatchGet() {
	ctx := context.Background()
	id1 := s.insertProblem("Two Sum", "arrays", "easy")
	id2 := s.insertProblem("Valid Anagram", "strings", "easy")

	summaries, err := s.repo.BatchGet(ctx, []string{id1, id2, "missing-id"})
	s.Require().NoError(err)
	s.Require().Len(summaries, 2, "unknown IDs are absent, not errors")
	s.Assert().Equal("Two Sum", summaries[id1].Title)
	s.Assert().Equal("Valid Anagram", summaries[id2].Title)
}

func (s *ProblemRepositorySuite) TestBatchGet_Empty() {
	summaries, err := s.repo.BatchGet(context.Background(), nil)
	s.Require().NoError(err)
	s.Assert().Empty(summaries)
}

func (s *ProblemRepositorySuite) TestList_Filters() {
	ctx := context.Background()
	s.insertProblem("Two Sum", "arrays", "easy")
	s.insertProblem("Three Sum", "arrays", "medium")
	s.insertProblem("Valid Anagram", "strings", "easy")

	problems, err := s.repo.List(ctx, models.ProblemFilter{Category: "arrays"})
	s.Require().NoError(err)
	s.Assert().Len(problems, 2)

	problems, err = s.repo.List(ctx, models.ProblemFilter{Category: "arrays", Difficulty: "easy"})
	s.Require().NoError(err)
	s.Require().Len(problems, 1)
	s.Assert().Equal("Two Sum", problems[0].Title)

	problems, err = s.repo.List(ctx, models.ProblemFilter{Query: "Anagram"})
	s.Require().NoError(err)
	s.Require().Len(problems, 1)
	s.Assert().Equal("Valid Anagram", problems[0].Title)
}

func (s *ProblemRepositorySuite) TestList_Pagination() {
	ctx := context.Background()
	s.insertProblem("Two Sum", "arrays", "easy")
	s.insertProblem("Three Sum", "arrays", "medium")
	s.insertProblem("Four Sum", "arrays", "hard")

	page, err := s.repo.List(ctx, models.ProblemFilter{Limit: 2})
	s.Require().NoError(err)
	s.Assert().Len(page, 2)

	page, err = s.repo.List(ctx, models.ProblemFilter{Limit: 2, Offset: 2})
	s.Require().NoError(err)
	s.Assert().Len(page, 1)
}

func (s *ProblemRepositorySuite) TestCategories() {
	ctx := context.Background()
	s.insertProblem("Two Sum", "arrays", "easy")
	s.insertProblem("Three Sum", "arrays", "medium")
	s.insertProblem("Valid Anagram", "strings", "easy")

	categories, err := s.repo.Categories(ctx)
	s.Require().NoError(err)
	s.Assert().Equal([]string{"arrays", "strings"}, categories)
}

func TestProblemRepositorySuite(t *testing.T) {
	suite.Run(t, new(ProblemRepositorySuite))
}
