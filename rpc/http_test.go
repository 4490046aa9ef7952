package rpc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"luminashare/core"
	"luminashare/core/events"
	"luminashare/core/state"
	"luminashare/crypto"
	"luminashare/fhe/mock"
	"luminashare/storage"
)

type testEnv struct {
	server *Server
	engine *mock.Engine
	scope  [20]byte
}

func newTestEnv(t *testing.T, jwtSecret string) *testEnv {
	t.Helper()
	scopeKey, err := crypto.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate scope key: %v", err)
	}
	scope := scopeKey.PubKey().Address().Array()
	engine := mock.NewEngine(scope)
	manager := state.NewManager(storage.NewMemDB())
	node := core.NewNode(manager, engine, scope)
	node.SetEmitter(events.NewBus())
	return &testEnv{server: NewServer(node, events.NewBus(), jwtSecret), engine: engine, scope: scope}
}

func newTestAddress(t *testing.T) ([20]byte, string) {
	t.Helper()
	key, err := crypto.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	addr := key.PubKey().Address()
	return addr.Array(), addr.String()
}

func (env *testEnv) call(t *testing.T, token string, method string, params interface{}) (*httptest.ResponseRecorder, RPCResponse) {
	t.Helper()
	encoded, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}
	body := fmt.Sprintf(`{"jsonrpc":"2.0","id":1,"method":%q,"params":[%s]}`, method, encoded)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	env.server.Router().ServeHTTP(recorder, req)
	var resp RPCResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, recorder.Body.String())
	}
	return recorder, resp
}

func (env *testEnv) register(t *testing.T, creatorBech string, creator [20]byte, accessType uint8) uint64 {
	t.Helper()
	handle, proof, err := env.engine.EncryptInput(500, creator, env.scope)
	if err != nil {
		t.Fatalf("encrypt price: %v", err)
	}
	_, resp := env.call(t, "", "lumina_register", map[string]interface{}{
		"creator":     creatorBech,
		"title":       "Quiet Machines",
		"locator":     "ipfs://QmQuietMachines",
		"contentType": 0,
		"accessType":  accessType,
		"priceHandle": handle.String(),
		"priceProof":  "0x" + fmt.Sprintf("%x", proof),
	})
	if resp.Error != nil {
		t.Fatalf("register failed: %+v", resp.Error)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected register result %T", resp.Result)
	}
	id, ok := result["contentId"].(float64)
	if !ok {
		t.Fatalf("missing contentId in %v", result)
	}
	return uint64(id)
}

func TestHandleRejectsMalformedJSON(t *testing.T) {
	env := newTestEnv(t, "")
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString("{not json"))
	recorder := httptest.NewRecorder()
	env.server.Router().ServeHTTP(recorder, req)
	var resp RPCResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != codeParseError {
		t.Fatalf("expected parse error, got %+v", resp.Error)
	}
}

func TestHandleUnknownMethod(t *testing.T) {
	env := newTestEnv(t, "")
	_, resp := env.call(t, "", "lumina_noSuchMethod", map[string]interface{}{})
	if resp.Error == nil || resp.Error.Code != codeMethodNotFound {
		t.Fatalf("expected method-not-found, got %+v", resp.Error)
	}
}

func TestRegisterAndGetContent(t *testing.T) {
	env := newTestEnv(t, "")
	creator, creatorBech := newTestAddress(t)
	id := env.register(t, creatorBech, creator, 1)

	_, resp := env.call(t, "", "lumina_getContent", map[string]interface{}{"contentId": id})
	if resp.Error != nil {
		t.Fatalf("getContent failed: %+v", resp.Error)
	}
	result := resp.Result.(map[string]interface{})
	if result["title"] != "Quiet Machines" {
		t.Fatalf("unexpected title %v", result["title"])
	}
	if result["creator"] != creatorBech {
		t.Fatalf("unexpected creator %v", result["creator"])
	}
	if result["active"] != true {
		t.Fatalf("expected active content, got %v", result["active"])
	}
}

func TestRegisterRejectsEmptyTitle(t *testing.T) {
	env := newTestEnv(t, "")
	creator, creatorBech := newTestAddress(t)
	handle, proof, err := env.engine.EncryptInput(500, creator, env.scope)
	if err != nil {
		t.Fatalf("encrypt price: %v", err)
	}
	_, resp := env.call(t, "", "lumina_register", map[string]interface{}{
		"creator":     creatorBech,
		"title":       "   ",
		"locator":     "ipfs://x",
		"contentType": 0,
		"accessType":  1,
		"priceHandle": handle.String(),
		"priceProof":  "0x" + fmt.Sprintf("%x", proof),
	})
	if resp.Error == nil || resp.Error.Code != codeInvalidParams {
		t.Fatalf("expected invalid-params, got %+v", resp.Error)
	}
}

func TestPurchaseGrantsAccess(t *testing.T) {
	env := newTestEnv(t, "")
	creator, creatorBech := newTestAddress(t)
	id := env.register(t, creatorBech, creator, 1)

	payer, payerBech := newTestAddress(t)
	payment, proof, err := env.engine.EncryptInput(120, payer, env.scope)
	if err != nil {
		t.Fatalf("encrypt payment: %v", err)
	}
	_, resp := env.call(t, "", "lumina_purchase", map[string]interface{}{
		"payer":         payerBech,
		"contentId":     id,
		"paymentHandle": payment.String(),
		"paymentProof":  "0x" + fmt.Sprintf("%x", proof),
	})
	if resp.Error != nil {
		t.Fatalf("purchase failed: %+v", resp.Error)
	}

	_, resp = env.call(t, "", "lumina_checkAccess", map[string]interface{}{
		"contentId": id,
		"user":      payerBech,
	})
	if resp.Error != nil {
		t.Fatalf("checkAccess failed: %+v", resp.Error)
	}
	if resp.Result.(map[string]interface{})["hasAccess"] != true {
		t.Fatalf("expected access after purchase")
	}
}

func TestQueryUnknownContentReturnsNotFound(t *testing.T) {
	env := newTestEnv(t, "")
	_, resp := env.call(t, "", "lumina_getContent", map[string]interface{}{"contentId": 42})
	if resp.Error == nil || resp.Error.Code != codeNotFound {
		t.Fatalf("expected not-found, got %+v", resp.Error)
	}
}

func TestMutatingMethodsRequireBearerToken(t *testing.T) {
	env := newTestEnv(t, "topsecret")
	creator, creatorBech := newTestAddress(t)
	handle, proof, err := env.engine.EncryptInput(500, creator, env.scope)
	if err != nil {
		t.Fatalf("encrypt price: %v", err)
	}
	params := map[string]interface{}{
		"creator":     creatorBech,
		"title":       "Locked Door",
		"locator":     "ipfs://locked",
		"contentType": 1,
		"accessType":  1,
		"priceHandle": handle.String(),
		"priceProof":  "0x" + fmt.Sprintf("%x", proof),
	}

	recorder, resp := env.call(t, "", "lumina_register", params)
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", recorder.Code)
	}
	if resp.Error == nil || resp.Error.Code != codeUnauthorized {
		t.Fatalf("expected unauthorized, got %+v", resp.Error)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "tests",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("topsecret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	_, resp = env.call(t, signed, "lumina_register", params)
	if resp.Error != nil {
		t.Fatalf("expected authorized register to succeed, got %+v", resp.Error)
	}
}

func TestReadsStayOpenWithAuthEnabled(t *testing.T) {
	env := newTestEnv(t, "topsecret")
	_, resp := env.call(t, "", "lumina_getContentCount", map[string]interface{}{})
	if resp.Error != nil {
		t.Fatalf("expected open read, got %+v", resp.Error)
	}
	if resp.Result.(map[string]interface{})["count"] != float64(0) {
		t.Fatalf("unexpected count %v", resp.Result)
	}
}
