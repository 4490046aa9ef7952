package rpc

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"luminashare/native/content"
	"luminashare/native/ledger"
)

type registerParams struct {
	Creator     string `json:"creator"`
	Title       string `json:"title"`
	Locator     string `json:"locator"`
	ContentType uint8  `json:"contentType"`
	AccessType  uint8  `json:"accessType"`
	PriceHandle string `json:"priceHandle"`
	PriceProof  string `json:"priceProof"`
}

func (s *Server) handleRegister(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params registerParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	creator, err := decodeAddressParam(params.Creator)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid creator address", err.Error())
		return
	}
	price, err := decodeHandleParam(params.PriceHandle)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid price handle", err.Error())
		return
	}
	proof, err := hexutil.Decode(params.PriceProof)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid price proof", err.Error())
		return
	}
	record, err := s.node.Register(creator, params.Title, params.Locator,
		content.ContentType(params.ContentType), content.AccessType(params.AccessType), price, proof)
	if err != nil {
		writeNodeError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]interface{}{
		"contentId": record.ID,
		"createdAt": record.CreatedAt,
	})
}

type purchaseParams struct {
	Payer         string `json:"payer"`
	ContentID     uint64 `json:"contentId"`
	PaymentHandle string `json:"paymentHandle"`
	PaymentProof  string `json:"paymentProof"`
}

func (s *Server) handlePurchase(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params purchaseParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	payer, err := decodeAddressParam(params.Payer)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid payer address", err.Error())
		return
	}
	payment, err := decodeHandleParam(params.PaymentHandle)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid payment handle", err.Error())
		return
	}
	proof, err := hexutil.Decode(params.PaymentProof)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid payment proof", err.Error())
		return
	}
	if err := s.node.Purchase(params.ContentID, payer, payment, proof); err != nil {
		writeNodeError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]bool{"ok": true})
}

type tipParams struct {
	Tipper    string `json:"tipper"`
	ContentID uint64 `json:"contentId"`
	TipType   uint8  `json:"tipType"`
	TipHandle string `json:"tipHandle"`
	TipProof  string `json:"tipProof"`
}

func (s *Server) handleTip(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params tipParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	tipper, err := decodeAddressParam(params.Tipper)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid tipper address", err.Error())
		return
	}
	amount, err := decodeHandleParam(params.TipHandle)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid tip handle", err.Error())
		return
	}
	proof, err := hexutil.Decode(params.TipProof)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid tip proof", err.Error())
		return
	}
	if err := s.node.Tip(params.ContentID, tipper, amount, proof, ledger.TipType(params.TipType)); err != nil {
		writeNodeError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]bool{"ok": true})
}

type subscribeParams struct {
	Subscriber string `json:"subscriber"`
	ContentID  uint64 `json:"contentId"`
	Months     uint32 `json:"months"`
	AutoRenew  bool   `json:"autoRenew"`
	FeeHandle  string `json:"feeHandle"`
	FeeProof   string `json:"feeProof"`
}

func (s *Server) handleSubscribe(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params subscribeParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	subscriber, err := decodeAddressParam(params.Subscriber)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid subscriber address", err.Error())
		return
	}
	fee, err := decodeHandleParam(params.FeeHandle)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid fee handle", err.Error())
		return
	}
	proof, err := hexutil.Decode(params.FeeProof)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid fee proof", err.Error())
		return
	}
	sub, err := s.node.Subscribe(params.ContentID, subscriber, fee, proof, params.Months, params.AutoRenew)
	if err != nil {
		writeNodeError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, subscriptionResult(sub))
}

type renewParams struct {
	Caller     string `json:"caller"`
	ContentID  uint64 `json:"contentId"`
	Subscriber string `json:"subscriber"`
	FeeHandle  string `json:"feeHandle"`
	FeeProof   string `json:"feeProof"`
}

func (s *Server) handleRenewSubscription(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params renewParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	caller, err := decodeAddressParam(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	subscriber, err := decodeAddressParam(params.Subscriber)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid subscriber address", err.Error())
		return
	}
	fee, err := decodeHandleParam(params.FeeHandle)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid fee handle", err.Error())
		return
	}
	proof, err := hexutil.Decode(params.FeeProof)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid fee proof", err.Error())
		return
	}
	sub, err := s.node.RenewSubscription(caller, params.ContentID, subscriber, fee, proof)
	if err != nil {
		writeNodeError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, subscriptionResult(sub))
}

type cancelParams struct {
	Subscriber string `json:"subscriber"`
	ContentID  uint64 `json:"contentId"`
}

func (s *Server) handleCancelSubscription(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params cancelParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	subscriber, err := decodeAddressParam(params.Subscriber)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid subscriber address", err.Error())
		return
	}
	if err := s.node.CancelSubscription(params.ContentID, subscriber); err != nil {
		writeNodeError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]bool{"ok": true})
}

type recordViewParams struct {
	Viewer    string `json:"viewer"`
	ContentID uint64 `json:"contentId"`
}

func (s *Server) handleRecordView(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params recordViewParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	viewer, err := decodeAddressParam(params.Viewer)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid viewer address", err.Error())
		return
	}
	if err := s.node.RecordView(params.ContentID, viewer); err != nil {
		writeNodeError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]bool{"ok": true})
}
