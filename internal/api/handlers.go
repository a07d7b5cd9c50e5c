package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/trebuchet-org/dao-cli/internal/domain"
	"github.com/trebuchet-org/dao-cli/internal/domain/models"
	"github.com/trebuchet-org/dao-cli/internal/usecase"
)

const cacheHeader = "X-Cache"

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) networks(c *gin.Context) {
	s.cached(c, func() (any, error) {
		result, err := s.svc.ListNetworks.Run(c.Request.Context())
		if err != nil {
			return nil, err
		}
		out := make([]gin.H, 0, len(result.Networks))
		for _, n := range result.Networks {
			entry := gin.H{"name": n.Name, "chainId": n.ChainID, "factory": n.Factory, "daos": n.DAOs}
			if n.Error != nil {
				entry["error"] = n.Error.Error()
			}
			out = append(out, entry)
		}
		return gin.H{"networks": out, "current": result.Current}, nil
	})
}

func (s *Server) daos(c *gin.Context) {
	params := usecase.ListDAOsParams{
		Category: c.Query("category"),
		Tag:      c.Query("tag"),
		Search:   c.Query("q"),
		OnChain:  c.Query("onchain") == "true",
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			s.fail(c, domain.ValidationError{Field: "limit", Reason: "must be a non-negative integer"})
			return
		}
		params.Limit = limit
	}

	s.cached(c, func() (any, error) {
		result, err := s.svc.ListDAOs.Run(c.Request.Context(), params)
		if err != nil {
			return nil, err
		}
		for _, d := range result.DAOs {
			s.sanitizeDAO(d)
		}
		return result, nil
	})
}

func (s *Server) overview(c *gin.Context) {
	dao, ok := s.dao(c)
	if !ok {
		return
	}
	s.cached(c, func() (any, error) {
		overview, err := s.svc.ShowDAO.Run(c.Request.Context(), dao)
		if err != nil {
			return nil, err
		}
		s.sanitizeDAO(overview.DAO)
		for _, p := range overview.LatestProposals {
			s.sanitizeProposal(p)
		}
		return overview, nil
	})
}

func (s *Server) proposals(c *gin.Context) {
	dao, ok := s.dao(c)
	if !ok {
		return
	}

	var params usecase.ListProposalsParams
	if raw := c.Query("status"); raw != "" {
		for _, name := range strings.Split(raw, ",") {
			status, err := models.ParseProposalStatus(name)
			if err != nil {
				s.fail(c, domain.ValidationError{Field: "status", Reason: err.Error()})
				return
			}
			params.Status = append(params.Status, status)
		}
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			s.fail(c, domain.ValidationError{Field: "limit", Reason: "must be a non-negative integer"})
			return
		}
		params.Limit = limit
	}

	s.cached(c, func() (any, error) {
		result, err := s.svc.ListProposals.Run(c.Request.Context(), dao, params)
		if err != nil {
			return nil, err
		}
		for _, p := range result.Proposals {
			s.sanitizeProposal(p)
		}
		return gin.H{"proposals": result.Proposals, "total": result.Total}, nil
	})
}

func (s *Server) proposal(c *gin.Context) {
	dao, ok := s.dao(c)
	if !ok {
		return
	}
	s.cached(c, func() (any, error) {
		detail, err := s.svc.ShowProposal.Run(c.Request.Context(), dao, c.Param("id"))
		if err != nil {
			return nil, err
		}
		s.sanitizeProposal(detail.Proposal)
		for _, v := range detail.VoteLog {
			v.Reason = s.policy.Sanitize(v.Reason)
		}
		// the server wallet is not the visitor's
		detail.HasVoted = nil
		return detail, nil
	})
}

func (s *Server) treasury(c *gin.Context) {
	serveDAOView(s, c, s.svc.ShowTreasury)
}

func (s *Server) members(c *gin.Context) {
	serveDAOView(s, c, s.svc.ListMembers)
}

func (s *Server) settings(c *gin.Context) {
	serveDAOView(s, c, s.svc.ShowSettings)
}

func (s *Server) token(c *gin.Context) {
	dao, ok := s.dao(c)
	if !ok {
		return
	}
	params := usecase.ShowTokenParams{
		Account:      c.Query("account"),
		CountHolders: c.Query("holders") == "true",
	}
	s.cached(c, func() (any, error) {
		overview, err := s.svc.ShowToken.Run(c.Request.Context(), dao, params)
		if err != nil {
			return nil, err
		}
		if params.Account == "" {
			overview.Account = nil
		}
		return overview, nil
	})
}

func serveDAOView[T any](s *Server, c *gin.Context, reader DAOReader[T]) {
	dao, ok := s.dao(c)
	if !ok {
		return
	}
	s.cached(c, func() (any, error) {
		return reader.Run(c.Request.Context(), dao)
	})
}

func (s *Server) proposalCalldata(c *gin.Context) {
	dao, ok := s.dao(c)
	if !ok {
		return
	}
	var req usecase.BuildProposalTxParams
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, domain.ValidationError{Field: "body", Reason: err.Error()})
		return
	}

	result, err := s.svc.BuildProposalTx.Run(c.Request.Context(), dao, req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) voteCalldata(c *gin.Context) {
	dao, ok := s.dao(c)
	if !ok {
		return
	}
	var req usecase.BuildVoteTxParams
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, domain.ValidationError{Field: "body", Reason: err.Error()})
		return
	}

	tx, err := s.svc.BuildVoteTx.Run(c.Request.Context(), dao, req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tx": tx})
}

// dao resolves the :dao path parameter, writing the error response on failure
func (s *Server) dao(c *gin.Context) (*models.DAO, bool) {
	dao, err := s.svc.ResolveDAO.Run(c.Request.Context(), c.Param("dao"))
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	return dao, true
}

// cached serves the JSON of load from the read cache, filling it on a miss
func (s *Server) cached(c *gin.Context, load func() (any, error)) {
	ctx := c.Request.Context()
	key := "api:" + c.Request.URL.RequestURI()

	var raw json.RawMessage
	hit, err := s.cache.Get(ctx, key, &raw)
	if err != nil {
		s.log.Warn("read cache get failed", "key", key, "error", err)
	}
	if hit {
		c.Header(cacheHeader, "HIT")
		c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
		return
	}

	value, err := load()
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		s.log.Warn("read cache set failed", "key", key, "error", err)
	}
	c.Header(cacheHeader, "MISS")
	c.JSON(http.StatusOK, value)
}

func (s *Server) sanitizeDAO(d *models.DAO) {
	if d == nil {
		return
	}
	d.Name = s.policy.Sanitize(d.Name)
	d.Description = s.policy.Sanitize(d.Description)
}

func (s *Server) sanitizeProposal(p *models.Proposal) {
	if p == nil {
		return
	}
	p.Title = s.policy.Sanitize(p.Title)
	p.Description = s.policy.Sanitize(p.Description)
}
