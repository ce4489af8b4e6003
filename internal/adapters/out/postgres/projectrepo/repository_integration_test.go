package projectrepo_test

import (
	"context"
	"testing"
	"time"

	"shopfloor/internal/adapters/out/postgres/postgrestest"
	"shopfloor/internal/adapters/out/postgres/projectrepo"
	"shopfloor/internal/core/domain/model/kernel"
	"shopfloor/internal/core/domain/model/project"
	"shopfloor/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
)

type ProjectRepositoryIntegrationTestSuite struct {
	suite.Suite
	database   *postgrestest.Database
	repository *projectrepo.GormProjectRepository
}

func TestProjectRepositoryIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test")
	}
	suite.Run(t, new(ProjectRepositoryIntegrationTestSuite))
}

func (suite *ProjectRepositoryIntegrationTestSuite) SetupSuite() {
	database, err := postgrestest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database
}

func (suite *ProjectRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.database != nil {
		suite.Require().NoError(suite.database.Terminate(context.Background()))
	}
}

func (suite *ProjectRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.Reset())
	suite.repository = projectrepo.NewGormProjectRepository(suite.database.DB)
}

func (suite *ProjectRepositoryIntegrationTestSuite) newProject(name string, steps ...string) *project.Project {
	p, err := project.NewProject(kernel.NewUUID(), name, "line 3", steps, time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC))
	suite.Require().NoError(err)
	return p
}

func (suite *ProjectRepositoryIntegrationTestSuite) TestAdd_RoundTripsDefaultSteps() {
	ctx := context.Background()
	p := suite.newProject("Gearbox", "Cut", "Weld", "Paint")
	suite.Require().NoError(suite.repository.Add(ctx, p))

	loaded, err := suite.repository.Get(ctx, p.ID())

	suite.Require().NoError(err)
	suite.Equal("Gearbox", loaded.Name())
	suite.Equal("line 3", loaded.Description())
	suite.Equal([]string{"Cut", "Weld", "Paint"}, loaded.DefaultSteps())
	suite.Equal(p.CreatedAt(), loaded.CreatedAt())
}

func (suite *ProjectRepositoryIntegrationTestSuite) TestAdd_EmptyTemplate() {
	ctx := context.Background()
	p := suite.newProject("Pump")
	suite.Require().NoError(suite.repository.Add(ctx, p))

	loaded, err := suite.repository.Get(ctx, p.ID())

	suite.Require().NoError(err)
	suite.Empty(loaded.DefaultSteps())
	_, err = loaded.StepsForWorkOrder()
	suite.Require().ErrorIs(err, project.ErrDefaultStepsAreEmpty)
}

func (suite *ProjectRepositoryIntegrationTestSuite) TestAdd_DuplicateName() {
	ctx := context.Background()
	suite.Require().NoError(suite.repository.Add(ctx, suite.newProject("Gearbox")))

	err := suite.repository.Add(ctx, suite.newProject("Gearbox"))
	suite.Require().ErrorIs(err, project.ErrNameIsTaken)

	exists, err := suite.repository.ExistsName(ctx, "Gearbox")
	suite.Require().NoError(err)
	suite.True(exists)
}

func (suite *ProjectRepositoryIntegrationTestSuite) TestList_OrderedByName() {
	ctx := context.Background()
	for _, name := range []string{"Valve", "Gearbox", "Pump"} {
		suite.Require().NoError(suite.repository.Add(ctx, suite.newProject(name)))
	}

	projects, err := suite.repository.List(ctx)

	suite.Require().NoError(err)
	suite.Require().Len(projects, 3)
	suite.Equal("Gearbox", projects[0].Name())
	suite.Equal("Pump", projects[1].Name())
	suite.Equal("Valve", projects[2].Name())
}

func (suite *ProjectRepositoryIntegrationTestSuite) TestDelete() {
	ctx := context.Background()
	p := suite.newProject("Gearbox")
	suite.Require().NoError(suite.repository.Add(ctx, p))

	suite.Require().NoError(suite.repository.Delete(ctx, p.ID()))

	_, err := suite.repository.Get(ctx, p.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	suite.Require().ErrorIs(suite.repository.Delete(ctx, p.ID()), errs.ErrObjectNotFound)
}
