package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/AntonStoeckl/entity-eventstore-go/domain"
	"github.com/AntonStoeckl/entity-eventstore-go/eventstore"
	"github.com/AntonStoeckl/entity-eventstore-go/example/mailing"
	"github.com/AntonStoeckl/entity-eventstore-go/shell"
)

const (
	maxAccounts       = 10
	maxAccountRenames = 10
	maxCampaigns      = 100
	maxCampaignRename = 10
	maxMailings       = 1000
	engagementWindow  = 365 * 24 * time.Hour
)

var errSkipped = errors.New("operation skipped")

type campaignRef struct {
	accountID  uuid.UUID
	campaignID uuid.UUID
}

type mailingRef struct {
	campaignRef
	mailingID uuid.UUID
}

// tracker runs random mailing operations and remembers every identity it created.
type tracker struct {
	engine     eventstore.Engine
	repository *shell.Repository[*mailing.Account]
	routed     *countingRouter
	logger     *slog.Logger

	mu        sync.Mutex
	accounts  []uuid.UUID
	campaigns []campaignRef
	mailings  []mailingRef
	addresses []string
}

type operation func(ctx context.Context, t *tracker) error

var operations = []operation{
	createAccount,
	changeAccountName,
	addMember,
	addCampaign,
	changeCampaignName,
	sendMailing,
	openMailing,
	clickMailing,
	shareMailing,
}

func newTracker(engine eventstore.Engine, logger *slog.Logger) (*tracker, error) {
	registry := shell.NewEventRegistry()
	mailing.RegisterEvents(registry)

	store, err := shell.NewEventStore(engine, registry)
	if err != nil {
		return nil, err
	}

	routed := newCountingRouter()

	repository, err := newRepository(store, routed, logger)
	if err != nil {
		return nil, err
	}

	return &tracker{engine: engine, repository: repository, routed: routed, logger: logger}, nil
}

// run executes count random operations on up to workers goroutines, started at most rate per second.
func (t *tracker) run(ctx context.Context, count int, workers int, rate int) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))

	var tick <-chan time.Time
	if rate > 0 {
		ticker := time.NewTicker(time.Second / time.Duration(rate))
		defer ticker.Stop()
		tick = ticker.C
	}

	for i := range count {
		if i > 0 && i%1000 == 0 {
			t.logger.Info("operations left", "count", count-i)
		}

		if tick != nil {
			select {
			case <-tick:
			case <-gctx.Done():
				return g.Wait()
			}
		}

		op := operations[rand.IntN(len(operations))]

		g.Go(func() error {
			if err := op(gctx, t); err != nil && !errors.Is(err, errSkipped) {
				return err
			}

			return nil
		})
	}

	return g.Wait()
}

func createAccount(ctx context.Context, t *tracker) error {
	if t.routed.count(mailing.AccountCreatedEventType) >= maxAccounts {
		return errSkipped
	}

	command, err := mailing.BuildCreateAccount(fmt.Sprintf("Foo %d", 10+rand.IntN(90)))
	if err != nil {
		return err
	}

	account := mailing.NewAccount()
	if err = account.Create(command); err != nil {
		return err
	}

	if err = t.repository.Save(ctx, account); err != nil {
		return err
	}

	t.mu.Lock()
	t.accounts = append(t.accounts, account.ID())
	t.mu.Unlock()

	return nil
}

func changeAccountName(ctx context.Context, t *tracker) error {
	if t.routed.count(mailing.AccountNameChangedEventType) >= maxAccountRenames {
		return errSkipped
	}

	accountID, ok := pick(t, func() []uuid.UUID { return t.accounts })
	if !ok {
		return errSkipped
	}

	command, err := mailing.BuildChangeAccountName(fmt.Sprintf("Foo %d", 10+rand.IntN(90)))
	if err != nil {
		return err
	}

	_, err = t.repository.Update(ctx, accountID, func(account *mailing.Account) error {
		return account.ChangeName(command)
	})

	return err
}

func addMember(ctx context.Context, t *tracker) error {
	accountID, ok := pick(t, func() []uuid.UUID { return t.accounts })
	if !ok {
		return errSkipped
	}

	address := fmt.Sprintf("test+%s@example.com", uuid.NewString())

	command, err := mailing.BuildAddAccountMember(address)
	if err != nil {
		return err
	}

	_, err = t.repository.Update(ctx, accountID, func(account *mailing.Account) error {
		return account.AddMember(command)
	})
	if err != nil {
		return err
	}

	t.mu.Lock()
	t.addresses = append(t.addresses, address)
	t.mu.Unlock()

	return nil
}

func addCampaign(ctx context.Context, t *tracker) error {
	if t.routed.count(mailing.AccountCampaignAddedEventType) >= maxCampaigns {
		return errSkipped
	}

	accountID, ok := pick(t, func() []uuid.UUID { return t.accounts })
	if !ok {
		return errSkipped
	}

	command, err := mailing.BuildAddAccountCampaign(fmt.Sprintf("Foo %d", 100+rand.IntN(900)))
	if err != nil {
		return err
	}

	var campaignID uuid.UUID

	_, err = t.repository.Update(ctx, accountID, func(account *mailing.Account) error {
		var addErr error
		campaignID, addErr = account.AddCampaign(command)
		return addErr
	})
	if err != nil {
		return err
	}

	t.mu.Lock()
	t.campaigns = append(t.campaigns, campaignRef{accountID: accountID, campaignID: campaignID})
	t.mu.Unlock()

	return nil
}

func changeCampaignName(ctx context.Context, t *tracker) error {
	if t.routed.count(mailing.CampaignNameChangedEventType) >= maxCampaignRename {
		return errSkipped
	}

	ref, ok := pick(t, func() []campaignRef { return t.campaigns })
	if !ok {
		return errSkipped
	}

	command, err := mailing.BuildChangeCampaignName(fmt.Sprintf("Foo %d", 100+rand.IntN(900)))
	if err != nil {
		return err
	}

	_, err = t.repository.Update(ctx, ref.accountID, func(account *mailing.Account) error {
		campaign, getErr := account.Campaign(ref.campaignID)
		if getErr != nil {
			return getErr
		}

		return campaign.ChangeName(command)
	})

	return err
}

func sendMailing(ctx context.Context, t *tracker) error {
	if t.routed.count(mailing.CampaignMailingSentEventType) >= maxMailings {
		return errSkipped
	}

	ref, ok := pick(t, func() []campaignRef { return t.campaigns })
	if !ok {
		return errSkipped
	}

	command, err := mailing.BuildSendCampaignMailing(fmt.Sprintf("Foo %d", 1000+rand.IntN(9000)))
	if err != nil {
		return err
	}

	var mailingID uuid.UUID

	_, err = t.repository.Update(ctx, ref.accountID, func(account *mailing.Account) error {
		campaign, getErr := account.Campaign(ref.campaignID)
		if getErr != nil {
			return getErr
		}

		var sendErr error
		mailingID, sendErr = campaign.SendMailing(command)

		return sendErr
	})
	if err != nil {
		return err
	}

	t.mu.Lock()
	t.mailings = append(t.mailings, mailingRef{campaignRef: ref, mailingID: mailingID})
	t.mu.Unlock()

	return nil
}

func openMailing(ctx context.Context, t *tracker) error {
	return engage(ctx, t, func(m *mailing.Mailing, address string, at time.Time) error {
		command, err := mailing.BuildOpenMailing(address, at)
		if err != nil {
			return err
		}

		return m.Open(command)
	})
}

func clickMailing(ctx context.Context, t *tracker) error {
	return engage(ctx, t, func(m *mailing.Mailing, address string, at time.Time) error {
		command, err := mailing.BuildClickMailing(address, at)
		if err != nil {
			return err
		}

		return m.Click(command)
	})
}

func shareMailing(ctx context.Context, t *tracker) error {
	return engage(ctx, t, func(m *mailing.Mailing, address string, at time.Time) error {
		command, err := mailing.BuildShareMailing(address, at)
		if err != nil {
			return err
		}

		return m.Share(command)
	})
}

// engage records a random known address engaging with a random mailing at a random time within the last year.
func engage(ctx context.Context, t *tracker, fn func(m *mailing.Mailing, address string, at time.Time) error) error {
	ref, ok := pick(t, func() []mailingRef { return t.mailings })
	if !ok {
		return errSkipped
	}

	address, ok := pick(t, func() []string { return t.addresses })
	if !ok {
		return errSkipped
	}

	at := time.Now().Add(-time.Duration(rand.Int64N(int64(engagementWindow))))

	_, err := t.repository.Update(ctx, ref.accountID, func(account *mailing.Account) error {
		campaign, err := account.Campaign(ref.campaignID)
		if err != nil {
			return err
		}

		m, err := campaign.Mailing(ref.mailingID)
		if err != nil {
			return err
		}

		return fn(m, address, at)
	})

	return err
}

// pick returns a random element of the slice returned by list, which is read under the tracker's lock.
func pick[T any](t *tracker, list func() []T) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	values := list()
	if len(values) == 0 {
		var zero T
		return zero, false
	}

	return values[rand.IntN(len(values))], true
}

// streamIDs returns every identity the tracker created.
func (t *tracker) streamIDs() []uuid.UUID {
	t.mu.Lock()
	defer t.mu.Unlock()

	ids := slices.Clone(t.accounts)
	for _, ref := range t.campaigns {
		ids = append(ids, ref.campaignID)
	}
	for _, ref := range t.mailings {
		ids = append(ids, ref.mailingID)
	}

	return ids
}

// countingRouter counts routed events per event type.
type countingRouter struct {
	mu     sync.Mutex
	counts map[string]int
}

func newCountingRouter() *countingRouter {
	return &countingRouter{counts: make(map[string]int)}
}

func (r *countingRouter) Route(_ context.Context, event domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.counts[event.EventType()]++

	return nil
}

func (r *countingRouter) count(eventType string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.counts[eventType]
}

func (r *countingRouter) snapshot() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := make(map[string]int, len(r.counts))
	for eventType, n := range r.counts {
		counts[eventType] = n
	}

	return counts
}
