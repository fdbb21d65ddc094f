package company_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/entity-eventstore-go/domain"
	"github.com/AntonStoeckl/entity-eventstore-go/eventstore/memoryengine"
	"github.com/AntonStoeckl/entity-eventstore-go/example/company"
	"github.com/AntonStoeckl/entity-eventstore-go/shell"
)

func mustFound(t *testing.T, name string) *company.Company {
	t.Helper()

	command, err := company.BuildFoundCompany(name)
	require.NoError(t, err)

	c := company.New()
	require.NoError(t, c.Found(command))

	return c
}

func mustHire(t *testing.T, c *company.Company, name string, title string) *company.Employee {
	t.Helper()

	command, err := company.BuildHireEmployee(name, title)
	require.NoError(t, err)

	id, err := c.HireEmployee(command)
	require.NoError(t, err)

	employee, err := c.Employee(id)
	require.NoError(t, err)

	return employee
}

func mustPromote(t *testing.T, e *company.Employee, title string) {
	t.Helper()

	command, err := company.BuildPromoteEmployee(title)
	require.NoError(t, err)
	require.NoError(t, e.Promote(command))
}

func Test_Commands_When_FieldsAreMissing_Then_BuildingFails(t *testing.T) {
	testCases := []struct {
		name  string
		build func() error
	}{
		{name: "found without name", build: func() error { _, err := company.BuildFoundCompany(" "); return err }},
		{name: "hire without name", build: func() error { _, err := company.BuildHireEmployee("", "Captain"); return err }},
		{name: "hire without title", build: func() error { _, err := company.BuildHireEmployee("Leela", ""); return err }},
		{name: "promote without title", build: func() error { _, err := company.BuildPromoteEmployee(""); return err }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.build(), domain.ErrValidationFailed)
		})
	}
}

func Test_Found_AssignsIdentityAndName(t *testing.T) {
	c := mustFound(t, "Planet Express")

	assert.True(t, c.IsFounded())
	assert.NotEqual(t, uuid.Nil, c.ID())
	assert.Equal(t, "Planet Express", c.Name)
	assert.Equal(t, uint(1), c.Version())
}

func Test_Found_When_AlreadyFounded_Then_ItIsRejected(t *testing.T) {
	c := mustFound(t, "Planet Express")
	command, err := company.BuildFoundCompany("Mom's Friendly Robot Company")
	require.NoError(t, err)

	err = c.Found(command)

	assert.ErrorIs(t, err, company.ErrAlreadyFounded)
	assert.Equal(t, "Planet Express", c.Name)
	assert.Len(t, c.StagedEvents(), 1)
}

func Test_HireEmployee_When_NotFounded_Then_ItIsRejected(t *testing.T) {
	command, err := company.BuildHireEmployee("Philip Fry", "Delivery Boy")
	require.NoError(t, err)

	_, err = company.New().HireEmployee(command)

	assert.ErrorIs(t, err, company.ErrNotFounded)
}

func Test_Apply_When_HiredEmployeeHasNoIdentity_Then_TheHireIsRejected(t *testing.T) {
	c := mustFound(t, "Planet Express")

	err := c.Apply(company.EmployeeHired{CompanyID: c.ID(), Name: "Philip Fry", Title: "Delivery Boy"})

	assert.ErrorIs(t, err, domain.ErrMissingIdentity)
	assert.Equal(t, 0, c.Employees.Len())
}

func Test_HireAndPromote_StageEventsOnTheRightEntities(t *testing.T) {
	// arrange
	c := mustFound(t, "Planet Express")

	// act
	leela := mustHire(t, c, "Turanga Leela", "Captain")
	fry := mustHire(t, c, "Philip Fry", "Delivery Boy")
	mustPromote(t, fry, "Narwhal Trainer")

	// assert
	assert.Len(t, c.StagedEvents(), 3)
	assert.Empty(t, leela.StagedEvents())
	require.Len(t, fry.StagedEvents(), 1)
	assert.Equal(t, company.EmployeePromotedEventType, fry.StagedEvents()[0].EventType())
	assert.Equal(t, "Narwhal Trainer", fry.Title)
	assert.Equal(t, 2, c.Employees.Len())
}

func Test_PlanetExpress_EndToEnd(t *testing.T) {
	// arrange
	ctx := context.Background()
	engine, err := memoryengine.NewEventStore()
	require.NoError(t, err)

	registry := shell.NewEventRegistry()
	company.RegisterEvents(registry)

	store, err := shell.NewEventStore(engine, registry)
	require.NoError(t, err)

	routed := new(bytes.Buffer)
	repository, err := shell.NewRepository(store, company.New, shell.WithRouter(shell.NewWriterRouter(routed)))
	require.NoError(t, err)

	c := mustFound(t, "Planet Express")
	leela := mustHire(t, c, "Turanga Leela", "Captain")
	fry := mustHire(t, c, "Philip Fry", "Delivery Boy")
	mustPromote(t, fry, "Narwhal Trainer")

	// act
	require.NoError(t, repository.Save(ctx, c))
	loaded, err := repository.Load(ctx, c.ID())

	// assert
	require.NoError(t, err)

	rootStream, err := engine.ReadStream(ctx, c.ID(), 0)
	require.NoError(t, err)
	assert.Len(t, rootStream, 3)

	fryStream, err := engine.ReadStream(ctx, fry.ID(), 0)
	require.NoError(t, err)
	assert.Len(t, fryStream, 1)

	leelaStream, err := engine.ReadStream(ctx, leela.ID(), 0)
	require.NoError(t, err)
	assert.Empty(t, leelaStream)

	assert.Equal(t, "Planet Express", loaded.Name)
	require.Equal(t, []uuid.UUID{leela.ID(), fry.ID()}, loaded.Employees.IDs())

	loadedFry, err := loaded.Employee(fry.ID())
	require.NoError(t, err)
	assert.Equal(t, "Philip Fry", loadedFry.Name)
	assert.Equal(t, "Narwhal Trainer", loadedFry.Title)

	loadedLeela, err := loaded.Employee(leela.ID())
	require.NoError(t, err)
	assert.Equal(t, "Captain", loadedLeela.Title)

	assert.Equal(t,
		"[x] Routed event CompanyFounded\n"+
			"[x] Routed event EmployeeHired\n"+
			"[x] Routed event EmployeeHired\n"+
			"[x] Routed event EmployeePromoted\n",
		routed.String(),
	)
}

func Test_Reloaded_Company_CanBeChangedAndSavedAgain(t *testing.T) {
	// arrange
	ctx := context.Background()
	engine, err := memoryengine.NewEventStore()
	require.NoError(t, err)

	registry := shell.NewEventRegistry()
	company.RegisterEvents(registry)
	store, err := shell.NewEventStore(engine, registry)
	require.NoError(t, err)
	repository, err := shell.NewRepository(store, company.New)
	require.NoError(t, err)

	c := mustFound(t, "Acme")
	ada := mustHire(t, c, "Ada", "Engineer")
	require.NoError(t, repository.Save(ctx, c))

	// act
	_, err = repository.Update(ctx, c.ID(), func(loaded *company.Company) error {
		employee, getErr := loaded.Employee(ada.ID())
		if getErr != nil {
			return getErr
		}

		command, buildErr := company.BuildPromoteEmployee("Lead")
		if buildErr != nil {
			return buildErr
		}

		return employee.Promote(command)
	})
	require.NoError(t, err)

	// assert
	rootStream, err := engine.ReadStream(ctx, c.ID(), 0)
	require.NoError(t, err)
	assert.Len(t, rootStream, 2)

	adaStream, err := engine.ReadStream(ctx, ada.ID(), 0)
	require.NoError(t, err)
	assert.Len(t, adaStream, 1)

	reloaded, err := repository.Load(ctx, c.ID())
	require.NoError(t, err)
	reloadedAda, err := reloaded.Employee(ada.ID())
	require.NoError(t, err)
	assert.Equal(t, "Lead", reloadedAda.Title)
}
