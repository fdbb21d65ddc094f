package shell_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/entity-eventstore-go/domain"
	"github.com/AntonStoeckl/entity-eventstore-go/shell"
	"github.com/AntonStoeckl/entity-eventstore-go/testutil/spies"
)

func Test_WriterRouter_PrintsOneLinePerEvent(t *testing.T) {
	out := new(bytes.Buffer)
	router := shell.NewWriterRouter(out)

	require.NoError(t, router.Route(context.Background(), orderPlaced{OrderID: uuid.New(), Customer: "Hermes", At: now()}))

	assert.Equal(t, "[x] Routed event OrderPlaced\n", out.String())
}

func Test_LoggingRouter_LogsEventTypeAndTarget(t *testing.T) {
	logs := spies.NewLogHandlerSpy(false)
	router := shell.NewLoggingRouter(slog.New(logs))
	event := lineAdded{OrderID: uuid.New(), LineID: uuid.New(), SKU: "SKU-1", At: now()}

	require.NoError(t, router.Route(context.Background(), event))

	attrs := logs.FindLog(slog.LevelInfo, "routed event")
	require.NotNil(t, attrs)
	assert.Equal(t, "LineAdded", attrs[shell.LogAttrEventType].String())
	assert.Equal(t, event.OrderID.String(), attrs[shell.LogAttrEntityID].String())
}

func Test_MultiRouter_RoutesToAllAndJoinsFailures(t *testing.T) {
	// arrange
	out := new(bytes.Buffer)
	errFirst := errors.New("first")
	errSecond := errors.New("second")
	failing := func(err error) shell.EventRouter {
		return shell.RouterFunc(func(context.Context, domain.Event) error { return err })
	}

	router, err := shell.NewMultiRouter(failing(errFirst), shell.NewWriterRouter(out), failing(errSecond))
	require.NoError(t, err)

	// act
	err = router.Route(context.Background(), quantityChanged{LineID: uuid.New(), Quantity: 1, At: now()})

	// assert
	assert.ErrorIs(t, err, errFirst)
	assert.ErrorIs(t, err, errSecond)
	assert.Equal(t, "[x] Routed event QuantityChanged\n", out.String())
}

func Test_NewMultiRouter_When_RouterIsNil_Then_ItFails(t *testing.T) {
	_, err := shell.NewMultiRouter(shell.NewStdOutRouter(), nil)

	assert.ErrorIs(t, err, shell.ErrNilRouter)
}
