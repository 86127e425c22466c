package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/elimucd/backend/core"
	"github.com/elimucd/backend/core/gamify"
	"github.com/elimucd/backend/core/role"
)

type gamifyApi struct{}

func registerGamifyAPI(g *echo.Group, jwt echo.MiddlewareFunc, roleSvc role.Service) {
	api := gamifyApi{}

	g.POST("/points/award", api.awardPoints, jwt, permissionMiddleware(roleSvc, "report", "view"))
	g.POST("/leaderboard/rank", api.rank, jwt, permissionMiddleware(roleSvc, "report", "view"))
}

type pointsResponse struct {
	Event  gamify.Event `json:"event"`
	Points int          `json:"points"`
}

func (api *gamifyApi) awardPoints(ctx echo.Context) error {
	var data gamify.Event
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Event")
	}
	if err := core.Validate.Struct(&data); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, pointsResponse{Event: data, Points: gamify.PointsFor(data)})
}

type rankedEntry struct {
	gamify.Entry
	RankDelta *int `json:"rank_delta,omitempty"`
}

func (api *gamifyApi) rank(ctx echo.Context) error {
	var data []gamify.Entry
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to leaderboard entries")
	}

	ranked := gamify.Rank(data)
	resp := make([]rankedEntry, 0, len(ranked))
	for _, e := range ranked {
		resp = append(resp, rankedEntry{
			Entry:     e,
			RankDelta: gamify.RankDelta(e.Rank, e.PreviousRank),
		})
	}
	return ctx.JSON(http.StatusOK, resp)
}
