package rpc

import (
	"net/http"

	"luminashare/native/subscription"
)

type contentIDParams struct {
	ContentID uint64 `json:"contentId"`
}

type creatorParams struct {
	Creator string `json:"creator"`
}

type accessParams struct {
	ContentID uint64 `json:"contentId"`
	User      string `json:"user"`
}

type subscriptionKeyParams struct {
	ContentID  uint64 `json:"contentId"`
	Subscriber string `json:"subscriber"`
}

func (s *Server) handleGetContent(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params contentIDParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	record, err := s.node.GetContent(params.ContentID)
	if err != nil {
		writeNodeError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]interface{}{
		"contentId":   record.ID,
		"creator":     formatAddress(record.Creator),
		"title":       record.Title,
		"locator":     record.Locator,
		"contentType": record.ContentType.String(),
		"accessType":  record.AccessType.String(),
		"price":       handleString(record.Price),
		"earnings":    handleString(record.Earnings),
		"viewCount":   handleString(record.ViewCount),
		"tipCount":    handleString(record.TipCount),
		"createdAt":   record.CreatedAt,
		"active":      record.Active,
	})
}

func (s *Server) handleGetContentCount(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	count, err := s.node.ContentCount()
	if err != nil {
		writeNodeError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]uint64{"count": count})
}

func (s *Server) handleListByCreator(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params creatorParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	creator, err := decodeAddressParam(params.Creator)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid creator address", err.Error())
		return
	}
	ids, err := s.node.ListByCreator(creator)
	if err != nil {
		writeNodeError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]interface{}{"contentIds": ids})
}

func (s *Server) handleCheckAccess(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params accessParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	user, err := decodeAddressParam(params.User)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid user address", err.Error())
		return
	}
	granted, err := s.node.CheckAccess(params.ContentID, user)
	if err != nil {
		writeNodeError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]bool{"hasAccess": granted})
}

func (s *Server) handleEarningsOf(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params contentIDParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	handle, err := s.node.EarningsOf(params.ContentID)
	if err != nil {
		writeNodeError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]string{"earnings": handleString(handle)})
}

func (s *Server) handleCreatorEarnings(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params creatorParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	creator, err := decodeAddressParam(params.Creator)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid creator address", err.Error())
		return
	}
	handle, err := s.node.CreatorEarnings(creator)
	if err != nil {
		writeNodeError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]string{"total": handleString(handle)})
}

func (s *Server) handleCreatorEarningsByCategory(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params creatorParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	creator, err := decodeAddressParam(params.Creator)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid creator address", err.Error())
		return
	}
	tips, payments, subscriptions, err := s.node.CreatorEarningsByCategory(creator)
	if err != nil {
		writeNodeError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]string{
		"tips":          handleString(tips),
		"payments":      handleString(payments),
		"subscriptions": handleString(subscriptions),
	})
}

func (s *Server) handleGetPaymentCount(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params contentIDParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	count, err := s.node.PaymentCount(params.ContentID)
	if err != nil {
		writeNodeError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]uint64{"count": count})
}

func (s *Server) handleGetTipCount(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params contentIDParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	count, err := s.node.TipCount(params.ContentID)
	if err != nil {
		writeNodeError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]uint64{"count": count})
}

func (s *Server) handleGetSubscription(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params subscriptionKeyParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	subscriber, err := decodeAddressParam(params.Subscriber)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid subscriber address", err.Error())
		return
	}
	sub, err := s.node.Subscription(params.ContentID, subscriber)
	if err != nil {
		writeNodeError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, subscriptionResult(sub))
}

func (s *Server) handleUserSubscriptions(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params struct {
		Subscriber string `json:"subscriber"`
	}
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid params", err.Error())
		return
	}
	subscriber, err := decodeAddressParam(params.Subscriber)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid subscriber address", err.Error())
		return
	}
	ids, err := s.node.UserSubscriptions(subscriber)
	if err != nil {
		writeNodeError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]interface{}{"contentIds": ids})
}

func subscriptionResult(sub *subscription.Subscription) map[string]interface{} {
	return map[string]interface{}{
		"contentId":  sub.ContentID,
		"subscriber": formatAddress(sub.Subscriber),
		"monthlyFee": handleString(sub.MonthlyFee),
		"expiresAt":  sub.ExpiresAt,
		"autoRenew":  sub.AutoRenew,
		"active":     sub.Active,
	}
}
