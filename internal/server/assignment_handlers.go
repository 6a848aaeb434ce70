package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"leadrouter/internal/campaign"
	"leadrouter/internal/database"
	"leadrouter/internal/metrics"
)

const (
	surfaceAPI = "api"
	surfaceWeb = "web"

	maxAssignBodyBytes = 1 << 20
)

var errAssignerNotConfigured = errors.New("assignment service not configured")

// assignHandler godoc
// @Summary Assign a lead to a campaign
// @Description Fetches the current campaigns and selects one for the lead using the configured strategy.
// @Tags assignments
// @Accept json
// @Produce json
// @Param request body campaign.AssignRequest true "Lead to assign"
// @Success 200 {object} campaign.AssignResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 413 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/assign [post]
func (s *Server) assignHandler(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxAssignBodyBytes)
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Request body too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	lead, err := campaign.DecodeAssignRequest(body)
	if err != nil {
		metrics.RecordAssignment(surfaceAPI, s.strategy(), campaign.MatchResult{}, err)
		s.abortWithError(c, err)
		return
	}

	result, err := s.assign(c.Request.Context(), lead, surfaceAPI)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, campaign.NewAssignResponse(result))
}

// listCampaignsHandler godoc
// @Summary List campaigns
// @Description Returns the campaign list as currently held by the campaign store.
// @Tags campaigns
// @Produce json
// @Success 200 {array} campaign.Campaign
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/campaigns [get]
func (s *Server) listCampaignsHandler(c *gin.Context) {
	if s.assigner == nil {
		s.abortWithError(c, errAssignerNotConfigured)
		return
	}

	campaigns, err := s.assigner.Campaigns(c.Request.Context())
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, campaigns)
}

// listAssignmentsHandler godoc
// @Summary List served assignments
// @Description Returns ledger rows newest first, optionally filtered by campaign, strategy and UTC date.
// @Tags assignments
// @Produce json
// @Param campaign query string false "Campaign ID"
// @Param strategy query string false "Selection strategy"
// @Param date query string false "UTC date (YYYY-MM-DD)"
// @Param limit query int false "Maximum rows (1-100)"
// @Success 200 {array} database.AssignmentRecord
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/assignments [get]
func (s *Server) listAssignmentsHandler(c *gin.Context) {
	filters := database.AssignmentFilters{
		CampaignID: c.Query("campaign"),
		Strategy:   c.Query("strategy"),
		Date:       c.Query("date"),
	}
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit, expected a positive integer"})
			return
		}
		filters.Limit = limit
	}

	records, err := s.db.ListAssignments(c.Request.Context(), filters)
	if err != nil {
		if errors.Is(err, database.ErrInvalidDateFilter) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to query assignments"})
		return
	}
	if records == nil {
		records = []database.AssignmentRecord{}
	}

	c.JSON(http.StatusOK, records)
}

// assign runs one selection for surface and records the outcome.
func (s *Server) assign(ctx context.Context, lead campaign.Lead, surface string) (campaign.MatchResult, error) {
	if s.assigner == nil {
		return campaign.MatchResult{}, errAssignerNotConfigured
	}

	result, err := s.assigner.Assign(ctx, lead)
	metrics.RecordAssignment(surface, s.assigner.Strategy(), result, err)
	if err != nil {
		return campaign.MatchResult{}, err
	}

	s.recordAssignment(ctx, lead, result, surface)
	return result, nil
}

// recordAssignment writes to the ledger. The response is served even when
// the row is lost.
func (s *Server) recordAssignment(ctx context.Context, lead campaign.Lead, result campaign.MatchResult, surface string) {
	if s.ledger == nil {
		return
	}
	if err := s.ledger.Record(ctx, lead, result, surface); err != nil {
		s.logger().Error("failed to record assignment", zap.String("surface", surface), zap.Error(err))
	}
}

func (s *Server) strategy() campaign.Strategy {
	if s.assigner == nil {
		return campaign.StrategyFirst
	}
	return s.assigner.Strategy()
}

func (s *Server) abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(statusFor(err), gin.H{"error": campaign.ErrorMessage(err)})
}

// statusFor maps the assignment error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, campaign.ErrEmptyBody),
		errors.Is(err, campaign.ErrMalformedJSON),
		errors.Is(err, campaign.ErrMissingLeadField):
		return http.StatusBadRequest
	case errors.Is(err, campaign.ErrNoCampaignsAvailable),
		errors.Is(err, campaign.ErrStoreUnavailable):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
