package app

import (
	"context"
	"testing"

	"internsaathi/internal/common"
	"internsaathi/internal/domain/account"
)

func TestVerificationRequiresAdmin(t *testing.T) {
	accounts := newFakeAccountRepo()
	service := NewVerificationService(accounts, nil)
	target := accounts.add(company(account.VerificationPending))

	if _, err := service.ListPending(context.Background(), target); !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if err := service.SetStatus(context.Background(), target, target.ID, account.VerificationApproved); !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestVerificationListsAndRejects(t *testing.T) {
	accounts := newFakeAccountRepo()
	service := NewVerificationService(accounts, nil)
	ctx := context.Background()
	pending := accounts.add(company(account.VerificationPending))
	accounts.add(company(account.VerificationApproved))

	items, err := service.ListPending(ctx, admin())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].ID != pending.ID || items[0].Name != "Acme HR" || items[0].VerificationDocument != "doc.pdf" {
		t.Fatalf("unexpected pending list: %+v", items)
	}
	if err := service.SetStatus(ctx, admin(), pending.ID, "Rejected"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	stored, _ := accounts.GetByID(ctx, pending.ID)
	if stored.IsApprovedCompany() {
		t.Fatal("rejected company must not be approved")
	}
	items, _ = service.ListPending(ctx, admin())
	if len(items) != 0 {
		t.Fatalf("expected empty pending list, got %+v", items)
	}
}

func TestVerificationSetStatusGuards(t *testing.T) {
	accounts := newFakeAccountRepo()
	service := NewVerificationService(accounts, nil)
	ctx := context.Background()
	pending := accounts.add(company(account.VerificationPending))
	learner := accounts.add(student("NIT"))

	if err := service.SetStatus(ctx, admin(), pending.ID, account.VerificationPending); !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := service.SetStatus(ctx, admin(), learner.ID, account.VerificationApproved); !common.Is(err, common.CodeNotFound) {
		t.Fatalf("expected not found for non-company, got %v", err)
	}
	if err := service.SetStatus(ctx, admin(), common.NewUUID(), account.VerificationApproved); !common.Is(err, common.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
