package workflow

import (
	"sync"
	"testing"

	"bitbucket.org/mmdatafocus/budget_backend/utils"
	"github.com/shopspring/decimal"
)

// NOTE: These tests are intentionally DB-free. They validate the intended ledger semantics:
// - a debit checks and mutates under one lock, so concurrent debits cannot both pass the check
// - a transfer debits the budget and credits the office fund as one unit, so totals are conserved
//
// The same semantics against real MySQL row locks are covered by the integration tests in models.

type fakeLedger struct {
	muByKey map[string]*sync.Mutex
	mu      sync.Mutex
	balance map[string]decimal.Decimal
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		muByKey: map[string]*sync.Mutex{},
		balance: map[string]decimal.Decimal{},
	}
}

func (l *fakeLedger) keyLock(key string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	km := l.muByKey[key]
	if km == nil {
		km = &sync.Mutex{}
		l.muByKey[key] = km
	}
	return km
}

func (l *fakeLedger) credit(key string, amount decimal.Decimal) {
	km := l.keyLock(key)
	km.Lock()
	defer km.Unlock()
	l.balance[key] = l.balance[key].Add(amount)
}

// debitIfSufficient mirrors DebitBudgetIfSufficient: the balance check and the
// mutation happen under the same per-key lock.
func (l *fakeLedger) debitIfSufficient(key string, amount decimal.Decimal) error {
	km := l.keyLock(key)
	km.Lock()
	defer km.Unlock()
	if l.balance[key].LessThan(amount) {
		return utils.InsufficientFundsError("insufficient funds on %s", key)
	}
	l.balance[key] = l.balance[key].Sub(amount)
	return nil
}

func (l *fakeLedger) get(key string) decimal.Decimal {
	km := l.keyLock(key)
	km.Lock()
	defer km.Unlock()
	return l.balance[key]
}

func TestConcurrentDebits_OnlyOneWins(t *testing.T) {
	l := newFakeLedger()
	l.credit("budget:5:2025", decimal.NewFromInt(100))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = l.debitIfSufficient("budget:5:2025", decimal.NewFromInt(60))
		}(i)
	}
	wg.Wait()

	failures := 0
	for _, err := range errs {
		if err != nil {
			if !utils.IsBusinessError(err) {
				t.Fatalf("unexpected error kind: %v", err)
			}
			failures++
		}
	}
	if failures != 1 {
		t.Fatalf("expected exactly one debit to fail, got %d failures", failures)
	}
	if got := l.get("budget:5:2025"); !got.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("expected balance 40 after one 60 debit, got %s", got)
	}
}

func TestConcurrentTransfers_ConserveTotal(t *testing.T) {
	for run := 0; run < 100; run++ {
		l := newFakeLedger()
		initial := decimal.NewFromInt(1000)
		l.credit("budget:5:2025", initial)

		transfer := func(amount decimal.Decimal) {
			// Debit and credit as one unit under the budget key lock,
			// like ProcessFundTransfer's transaction.
			km := l.keyLock("budget:5:2025")
			km.Lock()
			defer km.Unlock()
			if l.balance["budget:5:2025"].LessThan(amount) {
				return
			}
			l.balance["budget:5:2025"] = l.balance["budget:5:2025"].Sub(amount)
			l.credit("office:9:Stationery:2025", amount)
		}

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				transfer(decimal.NewFromInt(30))
			}()
		}
		wg.Wait()

		total := l.get("budget:5:2025").Add(l.get("office:9:Stationery:2025"))
		if !total.Equal(initial) {
			t.Fatalf("run=%d money not conserved: budget+office = %s, want %s", run, total, initial)
		}
		if l.get("budget:5:2025").IsNegative() {
			t.Fatalf("run=%d budget driven negative: %s", run, l.get("budget:5:2025"))
		}
	}
}
