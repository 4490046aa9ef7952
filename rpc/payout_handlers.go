package rpc

import (
	"net/http"

	"luminashare/fhe"
	"luminashare/native/payout"
)

type authorizeDecryptParams struct {
	Requester string `json:"requester"`
	ContentID uint64 `json:"contentId"`
}

func (s *Server) handleAuthorizeDecrypt(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params authorizeDecryptParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	requester, err := decodeAddressParam(params.Requester)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid requester address", err.Error())
		return
	}
	grant, err := s.node.AuthorizeDecrypt(params.ContentID, requester)
	if err != nil {
		writeNodeError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, grantResult(grant))
}

type withdrawParams struct {
	Creator string `json:"creator"`
	Amount  uint64 `json:"amount"`
}

func (s *Server) handleWithdraw(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params withdrawParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	creator, err := decodeAddressParam(params.Creator)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid creator address", err.Error())
		return
	}
	withdrawal, err := s.node.Withdraw(creator, params.Amount)
	if err != nil {
		writeNodeError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]interface{}{
		"withdrawalId": withdrawal.ID,
		"amount":       withdrawal.Amount,
		"claimedAt":    withdrawal.ClaimedAt,
	})
}

func grantResult(grant *payout.Grant) map[string]interface{} {
	handles := make([]string, len(grant.Handles))
	for i, h := range grant.Handles {
		handles[i] = h.String()
	}
	return map[string]interface{}{
		"grantId":   grant.ID,
		"creator":   formatAddress(grant.Creator),
		"contentId": grant.ContentID,
		"handles":   handles,
		"grantedAt": grant.GrantedAt,
	}
}

func handleString(h fhe.Handle) string {
	return h.String()
}
