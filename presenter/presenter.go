package presenter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/omni/authority-bridge/bridge"
	"github.com/omni/authority-bridge/logging"
	"github.com/omni/authority-bridge/presenter/http/middleware"
	"github.com/omni/authority-bridge/presenter/http/render"
)

type Presenter struct {
	logger logging.Logger
	main   *bridge.Main
	side   *bridge.Side
	root   chi.Router
}

func NewPresenter(logger logging.Logger, main *bridge.Main, side *bridge.Side) *Presenter {
	p := &Presenter{
		logger: logger,
		main:   main,
		side:   side,
		root:   chi.NewMux(),
	}
	p.root.Use(chimiddleware.Throttle(20))
	p.root.Use(chimiddleware.RequestID)
	p.root.Use(middleware.NewLoggerMiddleware(logger))
	p.root.Use(middleware.Recoverer)

	p.root.Route("/"+bridge.LedgerMain, func(r chi.Router) {
		r.Use(middleware.WithLedger(main))
		p.registerLedgerRoutes(r)
		r.With(middleware.SignedCaller).Post("/announce", p.PostAnnounce)
		r.With(middleware.SignedCaller).Post("/accept", p.PostAccept)
		r.Get("/relayed/{messageID}", p.GetRelayed)
	})
	p.root.Route("/"+bridge.LedgerSide, func(r chi.Router) {
		r.Use(middleware.WithLedger(side))
		p.registerLedgerRoutes(r)
		r.With(middleware.SignedCaller).Post("/confirm", p.PostConfirm)
		r.With(middleware.SignedCaller).Post("/signatures", p.PostSignature)
		r.Get("/confirmations/{messageID}/{authority}", p.GetConfirmation)
		r.Get("/signed", p.GetSigned)
		r.Get("/signatures/{messageHash}/{index:[0-9]+}", p.GetSignature)
		r.Get("/messages/{messageHash}", p.GetMessage)
		r.Get("/proxies/{sender}", p.GetProxy)
	})
	return p
}

func (p *Presenter) registerLedgerRoutes(r chi.Router) {
	r.Get("/threshold", p.GetThreshold)
	r.Get("/authorities/{index:[0-9]+}", p.GetAuthority)
	r.With(middleware.GetLogsFilterMiddleware).Get("/logs", p.GetLogs)
}

func (p *Presenter) Serve(addr string) error {
	p.logger.WithField("addr", addr).Info("starting presenter service")
	return http.ListenAndServe(addr, p.root)
}

func (p *Presenter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.root.ServeHTTP(w, r)
}

func decodeBody(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(middleware.Body(r.Context())))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: can't decode request body: %s", render.ErrBadRequest, err)
	}
	return nil
}

func (p *Presenter) PostAnnounce(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req AnnounceRequest
	if err := decodeBody(r, &req); err != nil {
		render.Error(w, r, err)
		return
	}
	recipient, err := parseAddress("recipient", req.Recipient)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	caller := middleware.Caller(ctx)
	res, err := p.main.Announce(ctx, caller, req.OriginReference, req.Payload, recipient)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, r, http.StatusOK, resultToInfo(res, caller))
}

func (p *Presenter) PostAccept(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req AcceptRequest
	if err := decodeBody(r, &req); err != nil {
		render.Error(w, r, err)
		return
	}
	sender, err := parseAddress("sender", req.Sender)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	recipient, err := parseAddress("recipient", req.Recipient)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	caller := middleware.Caller(ctx)
	res, err := p.main.AcceptSigned(ctx, caller, signaturesToBytes(req.Signatures), req.OriginReference, req.Payload, sender, recipient)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, r, http.StatusOK, resultToInfo(res, caller))
}

func (p *Presenter) PostConfirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ConfirmRequest
	if err := decodeBody(r, &req); err != nil {
		render.Error(w, r, err)
		return
	}
	sender, err := parseAddress("sender", req.Sender)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	recipient, err := parseAddress("recipient", req.Recipient)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	caller := middleware.Caller(ctx)
	res, err := p.side.Confirm(ctx, caller, req.OriginReference, req.Payload, sender, recipient)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, r, http.StatusOK, resultToInfo(res, caller))
}

func (p *Presenter) PostSignature(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SignatureRequest
	if err := decodeBody(r, &req); err != nil {
		render.Error(w, r, err)
		return
	}

	caller := middleware.Caller(ctx)
	res, err := p.side.SubmitSignature(ctx, caller, req.Signature, req.Message)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	render.JSON(w, r, http.StatusOK, resultToInfo(res, caller))
}

func (p *Presenter) GetThreshold(w http.ResponseWriter, r *http.Request) {
	ledger := middleware.LedgerFromContext(r.Context())

	render.JSON(w, r, http.StatusOK, &ThresholdResult{
		Ledger:    ledger.Name(),
		Threshold: ledger.Threshold(),
	})
}

func (p *Presenter) GetAuthority(w http.ResponseWriter, r *http.Request) {
	ledger := middleware.LedgerFromContext(r.Context())

	index, err := parseIndex(chi.URLParam(r, "index"))
	if err != nil {
		render.Error(w, r, err)
		return
	}
	authority, err := ledger.Authority(index)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, r, http.StatusOK, &AuthorityResult{
		Ledger:    ledger.Name(),
		Index:     index,
		Authority: authority,
	})
}

func (p *Presenter) GetLogs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ledger := middleware.LedgerFromContext(ctx)
	filter := middleware.GetLogsFilter(ctx)

	logs, err := ledger.Logs(ctx, filter.FromID, filter.Limit)
	if err != nil {
		render.Error(w, r, fmt.Errorf("failed to find logs: %w", err))
		return
	}

	res := &LogsResult{
		Ledger: ledger.Name(),
		Logs:   make([]*LogResult, 0, len(logs)),
		NextID: filter.FromID,
	}
	for _, log := range logs {
		event, args, err2 := ledger.ParseLog(log)
		if err2 != nil {
			logging.LoggerFromContext(ctx).WithError(err2).WithField("log_id", log.ID).Warn("can't decode log")
		}
		res.Logs = append(res.Logs, logToResult(log, event, args))
		res.NextID = log.ID + 1
	}
	render.JSON(w, r, http.StatusOK, res)
}

func (p *Presenter) GetRelayed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	messageID, err := parseHash("messageID", chi.URLParam(r, "messageID"))
	if err != nil {
		render.Error(w, r, err)
		return
	}
	msg, err := p.main.RelayedMessage(ctx, messageID)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	accepted, err := p.main.IsAccepted(ctx, messageID)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, r, http.StatusOK, &RelayedResult{
		MessageID:       msg.MessageID,
		OriginReference: msg.OriginReference,
		Sender:          msg.Sender,
		Recipient:       msg.Recipient,
		Payload:         msg.Payload,
		Accepted:        accepted,
	})
}

func (p *Presenter) GetConfirmation(w http.ResponseWriter, r *http.Request) {
	messageID, err := parseHash("messageID", chi.URLParam(r, "messageID"))
	if err != nil {
		render.Error(w, r, err)
		return
	}
	authority, err := parseAddress("authority", chi.URLParam(r, "authority"))
	if err != nil {
		render.Error(w, r, err)
		return
	}
	confirmed, err := p.side.HasConfirmed(r.Context(), messageID, authority)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, r, http.StatusOK, &ConfirmationResult{
		MessageID: messageID,
		Authority: authority,
		Confirmed: confirmed,
	})
}

func (p *Presenter) GetSigned(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	message, err := hexutil.Decode(query.Get("message"))
	if err != nil {
		render.BadRequest(w, r, "invalid message: %s", err)
		return
	}
	authority, err := parseAddress("authority", query.Get("authority"))
	if err != nil {
		render.Error(w, r, err)
		return
	}
	signed, err := p.side.HasSigned(r.Context(), message, authority)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, r, http.StatusOK, &SignedResult{
		MessageHash: bridge.MessageHash(message),
		Authority:   authority,
		Signed:      signed,
	})
}

func (p *Presenter) GetSignature(w http.ResponseWriter, r *http.Request) {
	msgHash, err := parseHash("messageHash", chi.URLParam(r, "messageHash"))
	if err != nil {
		render.Error(w, r, err)
		return
	}
	index, err := parseIndex(chi.URLParam(r, "index"))
	if err != nil {
		render.Error(w, r, err)
		return
	}
	sig, err := p.side.Signature(r.Context(), msgHash, index)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, r, http.StatusOK, &SignatureResult{
		MessageHash: msgHash,
		Index:       index,
		Signature:   sig,
	})
}

func (p *Presenter) GetMessage(w http.ResponseWriter, r *http.Request) {
	msgHash, err := parseHash("messageHash", chi.URLParam(r, "messageHash"))
	if err != nil {
		render.Error(w, r, err)
		return
	}
	msg, err := p.side.SignedMessage(r.Context(), msgHash)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, r, http.StatusOK, &MessageResult{
		MessageHash:       msg.MsgHash,
		Message:           msg.Message,
		NumSignatures:     msg.NumSignatures,
		Finalized:         msg.Finalized,
		RelayingAuthority: msg.RelayingAuthority,
	})
}

func (p *Presenter) GetProxy(w http.ResponseWriter, r *http.Request) {
	sender, err := parseAddress("sender", chi.URLParam(r, "sender"))
	if err != nil {
		render.Error(w, r, err)
		return
	}
	proxy, err := p.side.ProxyFor(r.Context(), sender)
	if err != nil {
		render.Error(w, r, err)
		return
	}

	render.JSON(w, r, http.StatusOK, &ProxyResult{
		Sender: sender,
		Proxy:  proxy,
	})
}
