package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"leadrouter/cmd/web"
	"leadrouter/internal/campaign"
	"leadrouter/internal/database"
)

const recentAssignmentLimit = 10

func (s *Server) intakePageHandler(c *gin.Context) {
	s.renderIntake(c, http.StatusOK, web.IntakeView{})
}

func (s *Server) intakeSubmitHandler(c *gin.Context) {
	lead, err := web.ParseLeadForm(c.Request)
	if err != nil {
		view := web.IntakeView{Lead: lead, Error: "Please enter a company name."}
		if !errors.Is(err, web.ErrLeadNameRequired) {
			view.Error = "Could not read the submitted form."
		}
		s.renderIntake(c, http.StatusBadRequest, view)
		return
	}

	result, err := s.assign(c.Request.Context(), lead, surfaceWeb)
	if err != nil {
		_ = c.Error(err)
		s.renderIntake(c, statusFor(err), web.IntakeView{Lead: lead, Error: errorBanner(err)})
		return
	}

	s.renderIntake(c, http.StatusOK, web.IntakeView{Lead: lead, Result: &result})
}

func (s *Server) renderIntake(c *gin.Context, status int, view web.IntakeView) {
	view.Strategy = s.strategy()
	view.Recent = s.recentAssignments(c.Request.Context())
	templ.Handler(web.IntakePage(view), templ.WithStatus(status)).ServeHTTP(c.Writer, c.Request)
}

func (s *Server) recentAssignments(ctx context.Context) []database.AssignmentRecord {
	if s.db == nil {
		return nil
	}
	records, err := s.db.ListAssignments(ctx, database.AssignmentFilters{Limit: recentAssignmentLimit})
	if err != nil {
		s.logger().Warn("failed to load recent assignments", zap.Error(err))
		return nil
	}
	return records
}

func errorBanner(err error) string {
	if statusFor(err) == http.StatusNotFound {
		return "No campaigns available. Add a campaign and try again."
	}
	return "Error: " + campaign.ErrorMessage(err)
}
