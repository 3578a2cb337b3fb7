package dashboard

import (
	"context"
	"net/http"

	"github.com/freshfold/orderdesk/internal/service/models/actor"
	"github.com/freshfold/orderdesk/internal/service/models/stats"
	"github.com/freshfold/orderdesk/internal/transport/http/converters"
	"github.com/freshfold/orderdesk/internal/transport/http/middleware/auth"
	"github.com/freshfold/orderdesk/internal/transport/http/respond"
)

// service is an interface for the service layer.
type service interface {
	Dashboard(ctx context.Context, act actor.Actor) (stats.Dashboard, error)
}

// Stats returns the dashboard aggregates for the requesting actor.
func Stats(w http.ResponseWriter, r *http.Request, svc service) {
	act, ok := auth.MustActor(w, r)
	if !ok {
		return
	}

	d, err := svc.Dashboard(r.Context(), act)
	if err != nil {
		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, converters.DashboardToResponse(d))
}
