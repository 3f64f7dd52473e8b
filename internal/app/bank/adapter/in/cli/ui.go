package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/JoeShih716/go-file-bank/internal/app/bank/domain"
	"github.com/JoeShih716/go-file-bank/internal/app/bank/usecase"
)

// UI 是 console collaborator：只負責提示、收集輸入與顯示結果
// 所有規則與驗證都在 usecase / domain
// 輸入一律在呼叫核心前收集完成，核心內的鎖不會跨越任何提示
type UI struct {
	bank *usecase.Bank
	in   *bufio.Reader
	out  io.Writer
}

// NewUI 建立 console 介面
func NewUI(bank *usecase.Bank, in io.Reader, out io.Writer) *UI {
	return &UI{bank: bank, in: bufio.NewReader(in), out: out}
}

// Run 執行主選單迴圈，直到使用者離開
func (ui *UI) Run(ctx context.Context) {
	for {
		fmt.Fprintln(ui.out, "\n=== BANK ===")
		fmt.Fprintln(ui.out, "1) Create account")
		fmt.Fprintln(ui.out, "2) Login")
		fmt.Fprintln(ui.out, "0) Quit")
		fmt.Fprint(ui.out, "> ")
		switch strings.TrimSpace(ui.readLine()) {
		case "1":
			ui.handleCreate(ctx)
		case "2":
			ui.handleLogin(ctx)
		case "0":
			return
		}
	}
}

func (ui *UI) handleCreate(ctx context.Context) {
	fmt.Fprint(ui.out, "Account ID: ")
	accountID := strings.TrimSpace(ui.readLine())
	fmt.Fprint(ui.out, "Password: ")
	password := ui.readPassword()
	fmt.Fprint(ui.out, "Repeat password: ")
	confirm := ui.readPassword()

	sess := ui.bank.NewSession()
	if err := sess.Create(ctx, accountID, password, confirm); err != nil {
		fmt.Fprintln(ui.out, "Error:", message(err))
		return
	}
	fmt.Fprintln(ui.out, "Account created successfully!")
	fmt.Fprintf(ui.out, "Your account number is %s\n", sess.AccountNumber())
	ui.handleSession(ctx, sess)
}

func (ui *UI) handleLogin(ctx context.Context) {
	fmt.Fprint(ui.out, "Account ID: ")
	accountID := strings.TrimSpace(ui.readLine())
	fmt.Fprint(ui.out, "Password: ")
	password := ui.readPassword()

	sess := ui.bank.NewSession()
	if err := sess.Login(ctx, accountID, password); err != nil {
		fmt.Fprintln(ui.out, "Error:", message(err))
		return
	}
	fmt.Fprintln(ui.out, "\n>>> BANK >>>>>>>>>>>>>>>>>>>>>>")
	if sess.FirstName() != "" {
		fmt.Fprintf(ui.out, "Welcome %s, you are now logged in.\n", sess.FirstName())
	} else {
		fmt.Fprintln(ui.out, "You are now logged in.")
	}
	fmt.Fprintf(ui.out, "Your balance is: $%s\n", domain.FormatAmount(sess.Balance()))
	fmt.Fprintln(ui.out, ">>>>>>>>>>>>>>>>>>>>>>>>>>>>>>>")
	ui.handleSession(ctx, sess)
}

// handleSession 已認證後的操作選單
func (ui *UI) handleSession(ctx context.Context, sess *usecase.Session) {
	for {
		fmt.Fprintf(ui.out, "\n--- %s ---\n", sess.AccountID())
		fmt.Fprintln(ui.out, "1) Deposit")
		fmt.Fprintln(ui.out, "2) Withdraw")
		fmt.Fprintln(ui.out, "3) Balance")
		fmt.Fprintln(ui.out, "4) Update profile")
		fmt.Fprintln(ui.out, "0) Back")
		fmt.Fprint(ui.out, "> ")
		switch strings.TrimSpace(ui.readLine()) {
		case "1":
			ui.handleAmount(ctx, sess, "Deposit amount:", sess.Deposit)
		case "2":
			ui.handleAmount(ctx, sess, "Withdraw amount:", sess.Withdraw)
		case "3":
			fmt.Fprintf(ui.out, "Balance: $%s\n", domain.FormatAmount(sess.Balance()))
		case "4":
			ui.handleProfile(ctx, sess)
		case "0":
			return
		}
	}
}

func (ui *UI) handleAmount(ctx context.Context, sess *usecase.Session, prompt string, op func(context.Context, int64) error) {
	fmt.Fprint(ui.out, prompt+" ")
	amount, err := domain.ParseAmount(ui.readLine())
	if err != nil {
		fmt.Fprintln(ui.out, "Error:", message(err))
		return
	}
	if err := op(ctx, amount); err != nil {
		fmt.Fprintln(ui.out, "Error:", message(err))
		return
	}
	fmt.Fprintf(ui.out, "Done. Balance: $%s\n", domain.FormatAmount(sess.Balance()))
}

func (ui *UI) handleProfile(ctx context.Context, sess *usecase.Session) {
	fmt.Fprint(ui.out, "First name: ")
	first := strings.TrimSpace(ui.readLine())
	fmt.Fprint(ui.out, "Last name: ")
	last := strings.TrimSpace(ui.readLine())
	fmt.Fprint(ui.out, "SSN: ")
	ssn := strings.TrimSpace(ui.readLine())
	if err := sess.UpdateProfile(ctx, first, last, ssn); err != nil {
		fmt.Fprintln(ui.out, "Error:", message(err))
		return
	}
	fmt.Fprintln(ui.out, "Profile updated.")
}

func (ui *UI) readLine() string {
	s, _ := ui.in.ReadString('\n')
	return strings.TrimRight(s, "\r\n")
}

// readPassword 在終端機上關閉 echo 讀取密碼
// stdin 不是終端機時（測試、pipe）退回一般讀取
func (ui *UI) readPassword() string {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(ui.out)
		if err == nil {
			return string(raw)
		}
	}
	return ui.readLine()
}

// message 將核心的錯誤種類對應成使用者訊息
func message(err error) string {
	switch {
	case errors.Is(err, domain.ErrAccountAlreadyExists):
		return "account ID is already taken"
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrInvalidPassword):
		// 對外不區分「帳戶不存在」與「密碼錯誤」
		return "account ID or password is incorrect"
	case errors.Is(err, domain.ErrWeakPassword):
		return "password must be at least 8 characters with an upper-case letter, a digit and a special character"
	case errors.Is(err, domain.ErrPasswordMismatch):
		return "passwords do not match"
	case errors.Is(err, domain.ErrAlreadyLoggedIn):
		return "already logged in"
	case errors.Is(err, domain.ErrNotLoggedIn):
		return "please log in first"
	case errors.Is(err, domain.ErrAmountMustBePositive):
		return "amount must be a positive number"
	case errors.Is(err, domain.ErrInsufficientBalance):
		return "insufficient balance"
	case errors.Is(err, domain.ErrStorageUnavailable):
		return "storage is unavailable, please try again later"
	default:
		return err.Error()
	}
}
