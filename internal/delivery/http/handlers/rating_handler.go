package handlers

import (
	"net/http"

	ratingRequest "github.com/LavaJover/freelink-contract-service/internal/delivery/http/dto/rating/request"
	ratingResponse "github.com/LavaJover/freelink-contract-service/internal/delivery/http/dto/rating/response"
	ratingdto "github.com/LavaJover/freelink-contract-service/internal/usecase/dto/rating"
	ratingUsecase "github.com/LavaJover/freelink-contract-service/internal/usecase/rating"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RatingHandler struct {
	uc        ratingUsecase.RatingUsecase
	paginator Paginator
	logger    *zap.Logger
}

func NewRatingHandler(uc ratingUsecase.RatingUsecase, paginator Paginator, logger *zap.Logger) *RatingHandler {
	return &RatingHandler{uc: uc, paginator: paginator, logger: logger}
}

// CreateRating handles POST /api/ratings/
func (h *RatingHandler) CreateRating(c *gin.Context) {
	var req ratingRequest.CreateRatingRequest
	if err := bindJSON(c, &req); err != nil {
		WriteError(c, h.logger, err)
		return
	}
	r, err := h.uc.CreateRating(c.Request.Context(), ActorFrom(c), &ratingdto.CreateRatingInput{
		ContractID: req.ContractID,
		Score:      req.Score,
		Comment:    req.Comment,
	})
	if err != nil {
		WriteError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, ratingResponse.FromRating(r))
}

// ListUserRatings handles GET /api/ratings/users/:user_id/
func (h *RatingHandler) ListUserRatings(c *gin.Context) {
	params, err := h.paginator.Parse(c)
	if err != nil {
		WriteError(c, h.logger, err)
		return
	}
	out, err := h.uc.ListUserRatings(c.Request.Context(), c.Param("user_id"), params.Page, params.Size)
	if err != nil {
		WriteError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, NewListResponse(c, h.paginator, params, out.Total, ratingResponse.FromRatings(out.Ratings)))
}
