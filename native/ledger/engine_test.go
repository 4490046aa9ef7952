package ledger_test

import (
	"errors"
	"testing"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"luminashare/core/state"
	"luminashare/fhe"
	"luminashare/fhe/mock"
	"luminashare/native/content"
	"luminashare/native/ledger"
	"luminashare/storage"
)

func addr(last byte) [20]byte {
	var out [20]byte
	out[19] = last
	return out
}

type testEnv struct {
	engine  *ledger.Engine
	fheng   *mock.Engine
	manager *state.Manager
	scope   [20]byte
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	scope := addr(0xAA)
	fheng := mock.NewEngine(scope)
	manager := state.NewManager(storage.NewMemDB())
	engine := ledger.NewEngine()
	engine.SetState(manager)
	engine.SetFHE(fheng)
	return &testEnv{engine: engine, fheng: fheng, manager: manager, scope: scope}
}

func (env *testEnv) seedContent(t *testing.T, id uint64, creator [20]byte) {
	t.Helper()
	record := &content.Content{
		ID:      id,
		Creator: creator,
		Title:   "Post",
		Active:  true,
	}
	if err := env.manager.ContentPut(record); err != nil {
		t.Fatalf("seed content: %v", err)
	}
}

func (env *testEnv) amount(t *testing.T, owner [20]byte, value uint32) fhe.Handle {
	t.Helper()
	handle, _, err := env.fheng.EncryptInput(value, owner, env.scope)
	if err != nil {
		t.Fatalf("encrypt amount: %v", err)
	}
	return handle
}

// decrypt runs the full grant + signed-authorization flow for one handle.
func (env *testEnv) decrypt(t *testing.T, handle fhe.Handle) uint32 {
	t.Helper()
	key, err := ethcrypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	var principal [20]byte
	copy(principal[:], ethcrypto.PubkeyToAddress(key.PublicKey).Bytes())
	if err := env.fheng.GrantDecrypt(handle, principal); err != nil {
		t.Fatalf("grant: %v", err)
	}
	auth, err := fhe.SignAuthorization(key, []fhe.Handle{handle})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	values, err := env.fheng.UserDecrypt([]fhe.Handle{handle}, auth)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	return values[0]
}

func TestCreditAccumulatesAcrossCategories(t *testing.T) {
	env := newEnv(t)
	creator := addr(0x01)
	payer := addr(0x02)
	env.seedContent(t, 0, creator)
	env.seedContent(t, 1, creator)

	credits := []struct {
		contentID uint64
		value     uint32
		category  ledger.Category
	}{
		{0, 100, ledger.CategoryPayment},
		{1, 30, ledger.CategoryTip},
		{0, 70, ledger.CategorySubscription},
		{0, 5, ledger.CategoryTip},
	}
	for _, credit := range credits {
		if _, err := env.engine.Credit(credit.contentID, env.amount(t, payer, credit.value), credit.category); err != nil {
			t.Fatalf("credit %+v: %v", credit, err)
		}
	}

	earnings0, err := env.engine.EarningsOf(0)
	if err != nil {
		t.Fatalf("earnings of 0: %v", err)
	}
	if got := env.decrypt(t, earnings0); got != 175 {
		t.Fatalf("content 0 earnings decrypted to %d, want 175", got)
	}
	earnings1, err := env.engine.EarningsOf(1)
	if err != nil {
		t.Fatalf("earnings of 1: %v", err)
	}
	if got := env.decrypt(t, earnings1); got != 30 {
		t.Fatalf("content 1 earnings decrypted to %d, want 30", got)
	}

	aggregate, err := env.engine.CreatorAggregate(creator)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if got := env.decrypt(t, aggregate.Total); got != 205 {
		t.Fatalf("creator total decrypted to %d, want 205", got)
	}
	if got := env.decrypt(t, aggregate.Payments); got != 100 {
		t.Fatalf("payments decrypted to %d, want 100", got)
	}
	if got := env.decrypt(t, aggregate.Tips); got != 35 {
		t.Fatalf("tips decrypted to %d, want 35", got)
	}
	if got := env.decrypt(t, aggregate.Subscriptions); got != 70 {
		t.Fatalf("subscriptions decrypted to %d, want 70", got)
	}
}

func TestCreditUnknownContent(t *testing.T) {
	env := newEnv(t)
	if _, err := env.engine.Credit(9, env.amount(t, addr(0x02), 10), ledger.CategoryPayment); !errors.Is(err, ledger.ErrContentNotFound) {
		t.Fatalf("expected content not found, got %v", err)
	}
}

func TestCreditRejectsInvalidCategory(t *testing.T) {
	env := newEnv(t)
	env.seedContent(t, 0, addr(0x01))
	if _, err := env.engine.Credit(0, env.amount(t, addr(0x02), 10), ledger.Category(9)); !errors.Is(err, ledger.ErrInvalidCategory) {
		t.Fatalf("expected category rejection, got %v", err)
	}
}

func TestBumpCountersIncrementEncryptedTotals(t *testing.T) {
	env := newEnv(t)
	env.seedContent(t, 0, addr(0x01))

	for i := 0; i < 3; i++ {
		if err := env.engine.BumpViewCounter(0); err != nil {
			t.Fatalf("bump view #%d: %v", i, err)
		}
	}
	if err := env.engine.BumpTipCounter(0); err != nil {
		t.Fatalf("bump tip: %v", err)
	}

	acc, ok, err := env.manager.ContentAccumulatorsGet(0)
	if err != nil || !ok {
		t.Fatalf("accumulators: %v %v", ok, err)
	}
	if got := env.decrypt(t, acc.ViewCount); got != 3 {
		t.Fatalf("view counter decrypted to %d, want 3", got)
	}
	if got := env.decrypt(t, acc.TipCount); got != 1 {
		t.Fatalf("tip counter decrypted to %d, want 1", got)
	}
}

func TestAppendLogsCountPerContent(t *testing.T) {
	env := newEnv(t)
	payer := addr(0x02)

	for i := 0; i < 2; i++ {
		payment := &ledger.Payment{ContentID: 0, Payer: payer, Amount: env.amount(t, payer, 10), Timestamp: 1_700_000_000}
		if err := env.engine.AppendPayment(payment); err != nil {
			t.Fatalf("append payment #%d: %v", i, err)
		}
	}
	tip := &ledger.Tip{ContentID: 0, Tipper: payer, Amount: env.amount(t, payer, 5), TipType: ledger.TipOneTime, Timestamp: 1_700_000_000}
	if err := env.engine.AppendTip(tip); err != nil {
		t.Fatalf("append tip: %v", err)
	}

	payments, err := env.engine.PaymentCount(0)
	if err != nil || payments != 2 {
		t.Fatalf("payment count %d %v, want 2", payments, err)
	}
	tips, err := env.engine.TipCount(0)
	if err != nil || tips != 1 {
		t.Fatalf("tip count %d %v, want 1", tips, err)
	}
	other, err := env.engine.PaymentCount(7)
	if err != nil || other != 0 {
		t.Fatalf("foreign payment count %d %v, want 0", other, err)
	}
}

func TestCreatorWithoutEarningsDecryptsToZero(t *testing.T) {
	env := newEnv(t)
	total, err := env.engine.CreatorEarnings(addr(0x07))
	if err != nil {
		t.Fatalf("creator earnings: %v", err)
	}
	if got := env.decrypt(t, total); got != 0 {
		t.Fatalf("empty aggregate decrypted to %d, want 0", got)
	}
}
