package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
	"github.com/LavaJover/freelink-contract-service/internal/infrastructure/memstore"
	ratingdto "github.com/LavaJover/freelink-contract-service/internal/usecase/dto/rating"
)

func seedContract(t *testing.T, store *memstore.Store, status domain.ContractStatus) {
	t.Helper()
	err := store.Repositories().Contracts.Create(context.Background(), &domain.Contract{
		ID:           "contract-1",
		JobID:        "job-1",
		ClientID:     "client-1",
		FreelancerID: "freelancer-1",
		AgreedBid:    1000,
		Currency:     "GHS",
		Status:       status,
		EscrowStatus: domain.EscrowReleased,
	})
	if err != nil {
		t.Fatalf("seed contract: %v", err)
	}
}

func TestCreateRating(t *testing.T) {
	store := memstore.New()
	seedContract(t, store, domain.ContractCompleted)
	uc := NewDefaultRatingUsecase(store, nil)
	ctx := context.Background()
	client := domain.Actor{UserID: "client-1", Roles: []domain.Role{domain.RoleClient}}

	r, err := uc.CreateRating(ctx, client, &ratingdto.CreateRatingInput{ContractID: "contract-1", Score: 5, Comment: " great "})
	if err != nil {
		t.Fatalf("create rating: %v", err)
	}
	if r.RevieweeID != "freelancer-1" || r.JobID != "job-1" || r.Comment != "great" {
		t.Fatalf("unexpected rating: %+v", r)
	}

	_, err = uc.CreateRating(ctx, client, &ratingdto.CreateRatingInput{ContractID: "contract-1", Score: 4})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("repeat rating must be a validation error, got %v", err)
	}

	freelancer := domain.Actor{UserID: "freelancer-1", Roles: []domain.Role{domain.RoleFreelancer}}
	if _, err := uc.CreateRating(ctx, freelancer, &ratingdto.CreateRatingInput{ContractID: "contract-1", Score: 4}); err != nil {
		t.Fatalf("freelancer rating: %v", err)
	}

	out, err := uc.ListUserRatings(ctx, "freelancer-1", 1, 10)
	if err != nil || out.Total != 1 || out.Ratings[0].Score != 5 {
		t.Fatalf("unexpected ratings: %+v err=%v", out, err)
	}
}

func TestCreateRatingRules(t *testing.T) {
	cases := []struct {
		name   string
		status domain.ContractStatus
		actor  string
		score  int
		check  func(error) bool
	}{
		{name: "contract not completed", status: domain.ContractInProgress, actor: "client-1", score: 3,
			check: func(err error) bool { return errors.Is(err, domain.ErrInvalidState) }},
		{name: "not a party", status: domain.ContractCompleted, actor: "stranger", score: 3,
			check: func(err error) bool { return errors.Is(err, domain.ErrPermissionDenied) }},
		{name: "score out of range", status: domain.ContractCompleted, actor: "client-1", score: 6,
			check: func(err error) bool {
				var verr *domain.ValidationError
				return errors.As(err, &verr) && len(verr.Fields["score"]) == 1
			}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := memstore.New()
			seedContract(t, store, tc.status)
			uc := NewDefaultRatingUsecase(store, nil)
			_, err := uc.CreateRating(context.Background(), domain.Actor{UserID: tc.actor}, &ratingdto.CreateRatingInput{
				ContractID: "contract-1", Score: tc.score,
			})
			if !tc.check(err) {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
