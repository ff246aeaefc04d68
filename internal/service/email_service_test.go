package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/boxorder-next/internal/boxorder"
	"github.com/boxorder-next/internal/config"
	"github.com/boxorder-next/internal/i18n"
	"github.com/boxorder-next/internal/models"

	"github.com/shopspring/decimal"
)

func TestBuildBoxOrderContent(t *testing.T) {
	set := boxorder.BoxSet{Boxes: []boxorder.Box{{
		Label: "Aminah",
		Items: []boxorder.BoxItem{{ProductID: 1, ProductName: "Kuih Lapis", Quantity: 2, UnitPrice: decimal.NewFromInt(10)}},
	}}}
	input := BoxOrderEmailInput{
		OrderNo:   "BX-1",
		AgentName: "Siti",
		Amount:    models.NewMoney(decimal.NewFromInt(20)),
		Currency:  "MYR",
		BoxSet:    set,
	}

	tests := []struct {
		name                string
		locale              string
		edited              bool
		wantSubjectContains []string
		wantBodyContains    []string
	}{
		{
			name:                "created_en",
			locale:              i18n.LocaleEN,
			wantSubjectContains: []string{"New box order", "BX-1", "Box Shop"},
			wantBodyContains:    []string{"placed by Siti", "Total: MYR 20.00", "Box: Aminah", "Kuih Lapis x2"},
		},
		{
			name:                "created_zh",
			locale:              i18n.LocaleZH,
			wantSubjectContains: []string{"新分箱订单"},
			wantBodyContains:    []string{"合计：MYR 20.00", "BOX BREAKDOWN"},
		},
		{
			name:                "edited_en",
			locale:              i18n.LocaleEN,
			edited:              true,
			wantSubjectContains: []string{"edited"},
			wantBodyContains:    []string{"edited by Siti", `Changes: added box "Aminah"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var subject, body string
			if tt.edited {
				edited := input
				edited.Summary = `added box "Aminah"`
				subject, body = renderEditedNotice("Box Shop", edited, tt.locale)
			} else {
				subject, body = renderCreatedNotice("Box Shop", input, tt.locale)
			}
			for _, expected := range tt.wantSubjectContains {
				if !strings.Contains(subject, expected) {
					t.Fatalf("subject missing %q: %s", expected, subject)
				}
			}
			for _, expected := range tt.wantBodyContains {
				if !strings.Contains(body, expected) {
					t.Fatalf("body missing %q: %s", expected, body)
				}
			}
		})
	}
}

func TestNotifyOperatorsRequiresConfig(t *testing.T) {
	disabled := NewEmailService(&config.EmailConfig{Enabled: false}, "Box Shop")
	if err := disabled.SendBoxOrderCreated(BoxOrderEmailInput{OrderNo: "BX"}); !errors.Is(err, ErrEmailServiceDisabled) {
		t.Fatalf("expected disabled error, got %v", err)
	}
	noRecipients := NewEmailService(&config.EmailConfig{Enabled: true, Host: "smtp", Port: 25, From: "a@b.c"}, "Box Shop")
	if err := noRecipients.SendBoxOrderCreated(BoxOrderEmailInput{OrderNo: "BX"}); !errors.Is(err, ErrEmailServiceNotConfigured) {
		t.Fatalf("expected not configured error, got %v", err)
	}
	onlyInvalid := NewEmailService(&config.EmailConfig{Enabled: true, Host: "smtp", Port: 25, From: "a@b.c", NotifyTo: []string{"not-an-email", " "}}, "Box Shop")
	if err := onlyInvalid.SendBoxOrderEdited(BoxOrderEmailInput{OrderNo: "BX"}); !errors.Is(err, ErrEmailServiceNotConfigured) {
		t.Fatalf("expected invalid recipients to be dropped, got %v", err)
	}
}

func TestMailHeaderRender(t *testing.T) {
	msg := string(mailHeader{From: formatSender("shop@example.com", "Box Shop"), To: "ops@example.com", Subject: "Order BX-1"}.render("hello"))
	for _, want := range []string{"From: \"Box Shop\" <shop@example.com>\r\n", "To: ops@example.com\r\n", "Subject: Order BX-1\r\n", "\r\n\r\nhello"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message missing %q: %q", want, msg)
		}
	}
}

func TestRecipientRejected(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "smtp_550_no_such_recipient",
			err:  errors.New("550 No such recipient here"),
			want: true,
		},
		{
			name: "smtp_user_unknown",
			err:  errors.New("SMTP 5.1.1 user unknown"),
			want: true,
		},
		{
			name: "smtp_550_mailbox_unavailable",
			err:  errors.New("550 mailbox unavailable"),
			want: true,
		},
		{
			name: "network_timeout",
			err:  errors.New("dial tcp timeout"),
			want: false,
		},
		{
			name: "nil_error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := recipientRejected(tt.err); got != tt.want {
				t.Fatalf("recipientRejected() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifySendError(t *testing.T) {
	rejected := errors.New("550 No such recipient here")
	if got := classifySendError(rejected); !errors.Is(got, ErrEmailRecipientRejected) {
		t.Fatalf("classifySendError() expected ErrEmailRecipientRejected, got %v", got)
	}

	networkErr := errors.New("dial tcp timeout")
	if got := classifySendError(networkErr); got != networkErr {
		t.Fatalf("classifySendError() should keep original error, got %v", got)
	}

	if got := classifySendError(nil); got != nil {
		t.Fatalf("classifySendError(nil) should be nil, got %v", got)
	}
}
