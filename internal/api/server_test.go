package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/dao-cli/internal/adapters/cache"
	"github.com/trebuchet-org/dao-cli/internal/domain"
	"github.com/trebuchet-org/dao-cli/internal/domain/config"
	"github.com/trebuchet-org/dao-cli/internal/domain/models"
	"github.com/trebuchet-org/dao-cli/internal/usecase"
)

type resolverFunc func(ctx context.Context, ref string) (*models.DAO, error)

func (f resolverFunc) Run(ctx context.Context, ref string) (*models.DAO, error) { return f(ctx, ref) }

type readerFunc[T any] func(ctx context.Context, dao *models.DAO) (T, error)

func (f readerFunc[T]) Run(ctx context.Context, dao *models.DAO) (T, error) { return f(ctx, dao) }

type listDAOsFunc func(ctx context.Context, params usecase.ListDAOsParams) (*usecase.ListDAOsResult, error)

func (f listDAOsFunc) Run(ctx context.Context, params usecase.ListDAOsParams) (*usecase.ListDAOsResult, error) {
	return f(ctx, params)
}

type listProposalsFunc func(ctx context.Context, dao *models.DAO, params usecase.ListProposalsParams) (*usecase.ListProposalsResult, error)

func (f listProposalsFunc) Run(ctx context.Context, dao *models.DAO, params usecase.ListProposalsParams) (*usecase.ListProposalsResult, error) {
	return f(ctx, dao, params)
}

type showProposalFunc func(ctx context.Context, dao *models.DAO, id string) (*models.ProposalDetail, error)

func (f showProposalFunc) Run(ctx context.Context, dao *models.DAO, id string) (*models.ProposalDetail, error) {
	return f(ctx, dao, id)
}

type buildVoteFunc func(ctx context.Context, dao *models.DAO, params usecase.BuildVoteTxParams) (*models.TxRequest, error)

func (f buildVoteFunc) Run(ctx context.Context, dao *models.DAO, params usecase.BuildVoteTxParams) (*models.TxRequest, error) {
	return f(ctx, dao, params)
}

type watchFunc func(ctx context.Context, dao *models.DAO, params usecase.WatchEventsParams, handle func(*models.DAOEvent) error) error

func (f watchFunc) Run(ctx context.Context, dao *models.DAO, params usecase.WatchEventsParams, handle func(*models.DAOEvent) error) error {
	return f(ctx, dao, params, handle)
}

var testDAO = &models.DAO{
	ChainID: 31337,
	Name:    "Acme",
	Config:  models.DAOConfig{Governor: common.HexToAddress("0x1000000000000000000000000000000000000001")},
}

func resolveAcme() resolverFunc {
	return func(_ context.Context, ref string) (*models.DAO, error) {
		if ref == "acme" {
			return testDAO, nil
		}
		return nil, domain.DAONotFoundErr{Ref: ref}
	}
}

func newTestServer(t *testing.T, svc Services) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.RuntimeConfig{DAOFile: &config.DAOFileConfig{Server: config.ServerConfig{CacheTTL: "1m"}}}
	return NewServer(cfg, svc, cache.NewMemoryCache(), slog.New(slog.DiscardHandler))
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, Services{})
	rec := do(t, s, http.MethodGet, "/api/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestReadsAreCached(t *testing.T) {
	calls := 0
	s := newTestServer(t, Services{
		ResolveDAO: resolveAcme(),
		ShowTreasury: readerFunc[*models.TreasuryBalance](func(context.Context, *models.DAO) (*models.TreasuryBalance, error) {
			calls++
			return &models.TreasuryBalance{Native: big.NewInt(42)}, nil
		}),
	})

	first := do(t, s, http.MethodGet, "/api/daos/acme/treasury", nil)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get(cacheHeader))

	second := do(t, s, http.MethodGet, "/api/daos/acme/treasury", nil)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get(cacheHeader))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, calls)
}

func TestUnknownDAOIsNotFound(t *testing.T) {
	s := newTestServer(t, Services{ResolveDAO: resolveAcme()})
	rec := do(t, s, http.MethodGet, "/api/daos/nope/settings", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "no DAO matches")
}

func TestProposalsFilterAndSanitize(t *testing.T) {
	var got usecase.ListProposalsParams
	s := newTestServer(t, Services{
		ResolveDAO: resolveAcme(),
		ListProposals: listProposalsFunc(func(_ context.Context, _ *models.DAO, params usecase.ListProposalsParams) (*usecase.ListProposalsResult, error) {
			got = params
			return &usecase.ListProposalsResult{
				Proposals: []*models.Proposal{{
					ID:          big.NewInt(7),
					Title:       "Fund",
					Description: "<script>alert(1)</script># Fund\n\nDetails",
				}},
				Total: 1,
			}, nil
		}),
	})

	rec := do(t, s, http.MethodGet, "/api/daos/acme/proposals?status=active,queued&limit=5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []models.ProposalStatus{models.ProposalStatusActive, models.ProposalStatusQueued}, got.Status)
	assert.Equal(t, 5, got.Limit)
	assert.NotContains(t, rec.Body.String(), "<script")
	assert.Contains(t, rec.Body.String(), "# Fund")

	bad := do(t, s, http.MethodGet, "/api/daos/acme/proposals?status=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestProposalDetailHidesServerWallet(t *testing.T) {
	voted := true
	s := newTestServer(t, Services{
		ResolveDAO: resolveAcme(),
		ShowProposal: showProposalFunc(func(_ context.Context, _ *models.DAO, id string) (*models.ProposalDetail, error) {
			if id != "7" {
				return nil, fmt.Errorf("proposal %s: %w", id, domain.ErrNotFound)
			}
			return &models.ProposalDetail{
				Proposal: &models.Proposal{ID: big.NewInt(7), Title: "Fund"},
				HasVoted: &voted,
			}, nil
		}),
	})

	rec := do(t, s, http.MethodGet, "/api/daos/acme/proposals/7", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "hasVoted")

	missing := do(t, s, http.MethodGet, "/api/daos/acme/proposals/8", nil)
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestVoteCalldata(t *testing.T) {
	s := newTestServer(t, Services{
		ResolveDAO: resolveAcme(),
		BuildVoteTx: buildVoteFunc(func(_ context.Context, dao *models.DAO, params usecase.BuildVoteTxParams) (*models.TxRequest, error) {
			if _, err := models.ParseVoteSupport(params.Support); err != nil {
				return nil, domain.ValidationError{Field: "support", Reason: err.Error()}
			}
			return &models.TxRequest{ChainID: dao.ChainID, To: dao.Config.Governor, Data: []byte{0x56, 0x78}, Value: big.NewInt(0)}, nil
		}),
	})

	rec := do(t, s, http.MethodPost, "/api/daos/acme/votes/calldata", usecase.BuildVoteTxParams{ProposalID: "7", Support: "for"})
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Tx models.TxRequest `json:"tx"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, uint64(31337), body.Tx.ChainID)
	assert.Equal(t, testDAO.Config.Governor, body.Tx.To)

	bad := do(t, s, http.MethodPost, "/api/daos/acme/votes/calldata", usecase.BuildVoteTxParams{ProposalID: "7", Support: "maybe"})
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestDAOListSanitizes(t *testing.T) {
	s := newTestServer(t, Services{
		ListDAOs: listDAOsFunc(func(_ context.Context, params usecase.ListDAOsParams) (*usecase.ListDAOsResult, error) {
			assert.Equal(t, "defi", params.Category)
			return &usecase.ListDAOsResult{DAOs: []*models.DAO{{Name: `Acme<img src=x onerror="alert(1)">`}}}, nil
		}),
	})

	rec := do(t, s, http.MethodGet, "/api/daos?category=defi", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "onerror")
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.DAONotFoundErr{Ref: "x"}, http.StatusNotFound},
		{domain.ValidationError{Field: "f", Reason: "r"}, http.StatusBadRequest},
		{fmt.Errorf("wrap: %w", domain.ErrInvalidAddress), http.StatusBadRequest},
		{domain.AmbiguousDAOErr{Ref: "a", Matches: []string{"1", "2"}}, http.StatusConflict},
		{fmt.Errorf("wrap: %w", domain.ErrInvalidState), http.StatusConflict},
		{errors.New("rpc down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

func TestEventsWebsocket(t *testing.T) {
	stopped := make(chan struct{})
	s := newTestServer(t, Services{
		ResolveDAO: resolveAcme(),
		WatchEvents: watchFunc(func(ctx context.Context, _ *models.DAO, params usecase.WatchEventsParams, handle func(*models.DAOEvent) error) error {
			defer close(stopped)
			assert.Equal(t, uint64(12), params.FromBlock)
			if err := handle(&models.DAOEvent{Kind: models.EventVoteCast, Block: 12, ProposalID: big.NewInt(7)}); err != nil {
				return err
			}
			<-ctx.Done()
			return ctx.Err()
		}),
	})

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/daos/acme/events?from=12"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var ev models.DAOEvent
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, models.EventVoteCast, ev.Kind)
	assert.Equal(t, uint64(12), ev.Block)

	require.NoError(t, conn.Close())
	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher was not stopped after the client left")
	}
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"https://app.example"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://app.example")
	assert.True(t, check(req))

	req.Header.Set("Origin", "https://evil.example")
	assert.False(t, check(req))

	assert.True(t, originChecker(nil)(req))
}
