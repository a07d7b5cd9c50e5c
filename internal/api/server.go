package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/microcosm-cc/bluemonday"
	"github.com/trebuchet-org/dao-cli/internal/domain/config"
	"github.com/trebuchet-org/dao-cli/internal/domain/models"
	"github.com/trebuchet-org/dao-cli/internal/usecase"
)

// DAOReader is a use case reading one view of a DAO
type DAOReader[T any] interface {
	Run(ctx context.Context, dao *models.DAO) (T, error)
}

// Services are the use cases the API serves
type Services struct {
	ResolveDAO interface {
		Run(ctx context.Context, ref string) (*models.DAO, error)
	}
	ListDAOs interface {
		Run(ctx context.Context, params usecase.ListDAOsParams) (*usecase.ListDAOsResult, error)
	}
	ListNetworks interface {
		Run(ctx context.Context) (*usecase.ListNetworksResult, error)
	}
	ListProposals interface {
		Run(ctx context.Context, dao *models.DAO, params usecase.ListProposalsParams) (*usecase.ListProposalsResult, error)
	}
	ShowProposal interface {
		Run(ctx context.Context, dao *models.DAO, id string) (*models.ProposalDetail, error)
	}
	ShowToken interface {
		Run(ctx context.Context, dao *models.DAO, params usecase.ShowTokenParams) (*models.TokenOverview, error)
	}
	BuildProposalTx interface {
		Run(ctx context.Context, dao *models.DAO, params usecase.BuildProposalTxParams) (*usecase.BuildProposalTxResult, error)
	}
	BuildVoteTx interface {
		Run(ctx context.Context, dao *models.DAO, params usecase.BuildVoteTxParams) (*models.TxRequest, error)
	}
	WatchEvents interface {
		Run(ctx context.Context, dao *models.DAO, params usecase.WatchEventsParams, handle func(*models.DAOEvent) error) error
	}

	ShowDAO      DAOReader[*models.DAOOverview]
	ShowTreasury DAOReader[*models.TreasuryBalance]
	ListMembers  DAOReader[*models.MemberList]
	ShowSettings DAOReader[*models.DAOSettings]
}

// Server is the HTTP and WebSocket read API
type Server struct {
	addr     string
	svc      Services
	cache    usecase.ReadCache
	ttl      time.Duration
	policy   *bluemonday.Policy
	upgrader websocket.Upgrader
	engine   *gin.Engine
	log      *slog.Logger
}

// NewServer creates the API server and its routes
func NewServer(cfg *config.RuntimeConfig, svc Services, cache usecase.ReadCache, log *slog.Logger) *Server {
	server := config.ServerConfig{}
	if cfg.DAOFile != nil {
		server = cfg.DAOFile.Server
	}

	s := &Server{
		addr:   server.ListenAddr(),
		svc:    svc,
		cache:  cache,
		ttl:    server.CacheTTLDuration(),
		policy: bluemonday.UGCPolicy(),
		log:    log,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(server.CORSOrigins),
	}

	g := gin.New()
	g.Use(gin.Logger(), gin.Recovery())
	g.Use(cors.New(corsConfig(server.CORSOrigins)))
	s.attachRoutes(g)
	s.engine = g
	return s
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type"},
		ExposeHeaders: []string{"Content-Length", cacheHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	return c
}

// originChecker accepts WebSocket upgrades from the configured CORS origins
func originChecker(origins []string) func(r *http.Request) bool {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		allowed[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return len(allowed) == 0 || origin == "" || allowed[origin]
	}
}

func (s *Server) attachRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.GET("/health", s.health)
		api.GET("/networks", s.networks)
		api.GET("/daos", s.daos)

		dao := api.Group("/daos/:dao")
		dao.GET("", s.overview)
		dao.GET("/proposals", s.proposals)
		dao.GET("/proposals/:id", s.proposal)
		dao.GET("/treasury", s.treasury)
		dao.GET("/members", s.members)
		dao.GET("/token", s.token)
		dao.GET("/settings", s.settings)
		dao.POST("/proposals/calldata", s.proposalCalldata)
		dao.POST("/votes/calldata", s.voteCalldata)
		dao.GET("/events", s.events)
	}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Addr is the listen address from [server] listen
func (s *Server) Addr() string {
	return s.addr
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.log.Info("api server listening", "addr", s.addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
