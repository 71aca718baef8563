// Package ofx reads bank and credit card statements in OFX/QFX format.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/spendwise/internal/model"
)

var (
	severityPattern = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	// An SGML opening tag alone on its line with the closing bracket missing.
	unclosedTagPattern = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
	// A leading MM/DD posting date.
	leadingDatePattern = regexp.MustCompile(`^\d{2}/\d{2}\s+`)
)

// Card and ACH processors prepend these to the merchant name.
var merchantPrefixes = []string{
	"POS PURCHASE ",
	"PURCHASE AUTHORIZED ON ",
	"DEBIT CARD PURCHASE ",
	"ACH DEBIT ",
	"CHECK CARD ",
	"VISA PURCHASE ",
	"MC PURCHASE ",
	"DEBIT PURCHASE ",
}

var genericNames = map[string]bool{
	"DEBIT":           true,
	"CREDIT":          true,
	"PURCHASE":        true,
	"PAYMENT":         true,
	"POS TRANSACTION": true,
	"CARD PURCHASE":   true,
}

// Statement is the content of one OFX file.
type Statement struct {
	Accounts     []string
	Transactions []model.Transaction
}

// Debits returns the outgoing transactions, the ones that become expenses.
func (s Statement) Debits() []model.Transaction {
	debits := make([]model.Transaction, 0, len(s.Transactions))
	for _, tx := range s.Transactions {
		if tx.Amount.IsNegative() {
			debits = append(debits, tx)
		}
	}
	return debits
}

// Parser converts OFX statements into transactions.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a parser. A nil logger uses slog.Default.
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// Parse reads an OFX/QFX document. Amounts keep the statement's sign,
// negative for money leaving the account.
func (p *Parser) Parse(ctx context.Context, r io.Reader) (Statement, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return Statement{}, fmt.Errorf("read OFX file: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return Statement{}, err
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocess(string(content))))
	if err != nil {
		return Statement{}, fmt.Errorf("parse OFX file: %w", err)
	}

	var stmt Statement
	accounts := make(map[string]bool)

	for _, msg := range resp.Bank {
		bank, ok := msg.(*ofxgo.StatementResponse)
		if !ok {
			continue
		}
		acct := string(bank.BankAcctFrom.AcctID)
		accounts[acct] = true
		if bank.BankTranList != nil {
			stmt.Transactions = append(stmt.Transactions, p.convertAll(bank.BankTranList.Transactions, acct)...)
		}
	}

	for _, msg := range resp.CreditCard {
		card, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok {
			continue
		}
		acct := string(card.CCAcctFrom.AcctID)
		accounts[acct] = true
		if card.BankTranList != nil {
			stmt.Transactions = append(stmt.Transactions, p.convertAll(card.BankTranList.Transactions, acct)...)
		}
	}

	for acct := range accounts {
		if acct != "" {
			stmt.Accounts = append(stmt.Accounts, acct)
		}
	}
	sort.Strings(stmt.Accounts)

	p.logger.InfoContext(ctx, "Parsed OFX file",
		"transactions", len(stmt.Transactions),
		"accounts", len(stmt.Accounts))

	return stmt, nil
}

func (p *Parser) convertAll(txs []ofxgo.Transaction, accountID string) []model.Transaction {
	out := make([]model.Transaction, 0, len(txs))
	for _, ofxTx := range txs {
		tx, err := convertTransaction(ofxTx, accountID)
		if err != nil {
			p.logger.Warn("Skipping OFX transaction",
				"fitid", string(ofxTx.FiTID),
				"account", accountID,
				"error", err)
			continue
		}
		out = append(out, tx)
	}
	return out
}

func convertTransaction(ofxTx ofxgo.Transaction, accountID string) (model.Transaction, error) {
	amount, err := decimal.NewFromString(ofxTx.TrnAmt.FloatString(2))
	if err != nil {
		return model.Transaction{}, fmt.Errorf("amount %s: %w", ofxTx.TrnAmt.String(), err)
	}

	tx := model.Transaction{
		ID:          string(ofxTx.FiTID),
		Date:        ofxTx.DtPosted.Time,
		Description: merchantName(ofxTx),
		Amount:      amount,
		AccountID:   accountID,
		Type:        ofxTx.TrnType.String(),
	}
	tx.Hash = tx.GenerateHash()
	return tx, nil
}

// preprocess fixes formatting problems that ofxgo rejects.
func preprocess(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityPattern.ReplaceAllStringFunc(content, strings.ToUpper)
	return unclosedTagPattern.ReplaceAllString(content, "$1>")
}

// merchantName picks the cleanest available description for a transaction.
func merchantName(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := strings.TrimSpace(string(tx.Name))
	if tx.Memo != "" && genericNames[strings.ToUpper(name)] {
		name = strings.TrimSpace(string(tx.Memo))
	}

	upper := strings.ToUpper(name)
	for _, prefix := range merchantPrefixes {
		if strings.HasPrefix(upper, prefix) {
			name = name[len(prefix):]
			break
		}
	}

	return strings.TrimSpace(leadingDatePattern.ReplaceAllString(name, ""))
}
