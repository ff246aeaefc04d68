package service

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/boxorder-next/internal/boxorder"
	"github.com/boxorder-next/internal/config"
	"github.com/boxorder-next/internal/i18n"
	"github.com/boxorder-next/internal/logger"
	"github.com/boxorder-next/internal/models"
)

// EmailService 分箱订单的运营通知邮件
type EmailService struct {
	cfg      *config.EmailConfig
	siteName string
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig, siteName string) *EmailService {
	return &EmailService{cfg: cfg, siteName: siteName}
}

// BoxOrderEmailInput 通知内容
type BoxOrderEmailInput struct {
	OrderNo   string
	AgentName string
	Amount    models.Money
	Currency  string
	BoxSet    boxorder.BoxSet
	// Summary 编辑摘要，仅编辑通知使用
	Summary string
}

// SendBoxOrderCreated 新分箱订单通知
func (s *EmailService) SendBoxOrderCreated(input BoxOrderEmailInput) error {
	subject, body := renderCreatedNotice(s.siteName, input, s.locale())
	return s.notifyOperators(subject, body)
}

// SendBoxOrderEdited 分箱编辑通知
func (s *EmailService) SendBoxOrderEdited(input BoxOrderEmailInput) error {
	subject, body := renderEditedNotice(s.siteName, input, s.locale())
	return s.notifyOperators(subject, body)
}

func (s *EmailService) locale() string {
	if s.cfg == nil {
		return i18n.DefaultLocale
	}
	return i18n.NormalizeLocale(s.cfg.Locale)
}

// notifyOperators 一次 SMTP 会话投递给全部 notify_to 收件人
func (s *EmailService) notifyOperators(subject, body string) error {
	if s.cfg == nil || !s.cfg.Enabled {
		return ErrEmailServiceDisabled
	}
	recipients := s.operatorRecipients()
	if len(recipients) == 0 || s.cfg.Host == "" || s.cfg.Port == 0 || s.cfg.From == "" {
		return ErrEmailServiceNotConfigured
	}

	header := mailHeader{
		From:    formatSender(s.cfg.From, s.cfg.FromName),
		To:      strings.Join(recipients, ", "),
		Subject: subject,
	}
	return classifySendError(s.deliver(recipients, header.render(body)))
}

func (s *EmailService) operatorRecipients() []string {
	out := make([]string, 0, len(s.cfg.NotifyTo))
	for _, raw := range s.cfg.NotifyTo {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		addr, err := mail.ParseAddress(raw)
		if err != nil {
			logger.Warnw("email_notify_recipient_invalid", "recipient", raw, "error", err)
			continue
		}
		out = append(out, addr.Address)
	}
	return out
}

func (s *EmailService) deliver(to []string, msg []byte) error {
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	client, err := s.dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if s.cfg.Username != "" || s.cfg.Password != "" {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)); err != nil {
				return err
			}
		}
	}
	if err := client.Mail(s.cfg.From); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

// dial use_ssl 走隐式 TLS，use_tls 走 STARTTLS，否则明文
func (s *EmailService) dial(addr string) (*smtp.Client, error) {
	tlsCfg := &tls.Config{ServerName: s.cfg.Host}
	if s.cfg.UseSSL {
		conn, err := tls.Dial("tcp", addr, tlsCfg)
		if err != nil {
			return nil, err
		}
		client, err := smtp.NewClient(conn, s.cfg.Host)
		if err != nil {
			conn.Close()
			return nil, err
		}
		return client, nil
	}
	client, err := smtp.Dial(addr)
	if err != nil {
		return nil, err
	}
	if s.cfg.UseTLS {
		if err := client.StartTLS(tlsCfg); err != nil {
			client.Close()
			return nil, err
		}
	}
	return client, nil
}

func renderCreatedNotice(siteName string, input BoxOrderEmailInput, locale string) (string, string) {
	agent := strings.TrimSpace(input.AgentName)
	if agent == "" {
		agent = "guest"
	}
	subject := i18n.Sprintf(locale, "email.box_order_created.subject", siteName, input.OrderNo)
	body := i18n.Sprintf(locale, "email.box_order_created.body",
		input.OrderNo, agent, input.Currency, input.Amount.String(),
		boxorder.PlainTextBreakdown(input.BoxSet, input.Currency))
	return subject, body
}

func renderEditedNotice(siteName string, input BoxOrderEmailInput, locale string) (string, string) {
	subject := i18n.Sprintf(locale, "email.box_order_edited.subject", siteName, input.OrderNo)
	body := i18n.Sprintf(locale, "email.box_order_edited.body",
		input.OrderNo, strings.TrimSpace(input.AgentName), input.Summary, input.Currency, input.Amount.String(),
		boxorder.PlainTextBreakdown(input.BoxSet, input.Currency))
	return subject, body
}

type mailHeader struct {
	From    string
	To      string
	Subject string
}

func (h mailHeader) render(body string) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", h.From)
	fmt.Fprintf(&buf, "To: %s\r\n", h.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", h.Subject))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	buf.WriteString(body)
	return buf.Bytes()
}

func formatSender(from, name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return from
	}
	return (&mail.Address{Name: mime.QEncoding.Encode("UTF-8", name), Address: from}).String()
}

var rejectedRecipientHints = []string{
	"no such recipient",
	"no such user",
	"recipient not found",
	"recipient address rejected",
	"invalid recipient",
	"user unknown",
	"unknown user",
	"unknown mailbox",
	"mailbox unavailable",
}

// classifySendError 收件人被拒时包装为 ErrEmailRecipientRejected，队列据此不再重试
func classifySendError(err error) error {
	if err == nil {
		return nil
	}
	if recipientRejected(err) {
		return fmt.Errorf("%w: %v", ErrEmailRecipientRejected, err)
	}
	return err
}

func recipientRejected(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, hint := range rejectedRecipientHints {
		if strings.Contains(msg, hint) {
			return true
		}
	}
	if !strings.Contains(msg, "550") {
		return false
	}
	for _, hint := range []string{"recipient", "user", "mailbox", "rcpt"} {
		if strings.Contains(msg, hint) {
			return true
		}
	}
	return false
}
