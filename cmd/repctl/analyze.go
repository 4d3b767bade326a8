package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Danish0703/algorand-reputation-system/internal/domain/model"
	"github.com/Danish0703/algorand-reputation-system/internal/domain/reputation"
	"github.com/Danish0703/algorand-reputation-system/internal/domain/types"
)

// offlineWallet labels results when neither the file nor --wallet names one.
const offlineWallet = "offline"

var errNoTransactions = errors.New("no transactions in file")

// txFile is the on-disk layout: either a bare list of transactions or a
// document with a wallet and a transactions list. JSON parses as YAML.
type txFile struct {
	Wallet       string   `yaml:"wallet"`
	Transactions []fileTx `yaml:"transactions"`
}

// fileTx keeps the date as text so both YAML timestamps and quoted JSON
// strings are accepted.
type fileTx struct {
	TxID         string `yaml:"txId"`
	Type         string `yaml:"type"`
	Amount       string `yaml:"amount"`
	Date         string `yaml:"date"`
	Counterparty string `yaml:"counterparty"`
	Note         string `yaml:"note"`
	AIAnalyzed   bool   `yaml:"aiAnalyzed"`
}

func analyzeCmd() *cobra.Command {
	var (
		file     string
		wallet   string
		advanced bool
		asOf     string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Score a transaction file offline",
		Long: `Read a YAML or JSON list of transactions, run the basic or advanced
pipeline over it and print the result as JSON.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := time.Now()
			if asOf != "" {
				t, err := parseDate(asOf)
				if err != nil {
					return fmt.Errorf("invalid --as-of: %w", err)
				}
				now = t
			}
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", file, err)
			}
			v := reputation.VariantBasic
			if advanced {
				v = reputation.VariantAdvanced
			}
			resp, err := runAnalyze(data, wallet, v, now)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "transaction file (YAML or JSON)")
	cmd.Flags().StringVar(&wallet, "wallet", "", "wallet address reported in the result")
	cmd.Flags().BoolVar(&advanced, "advanced", false, "run the eleven-factor advanced pipeline")
	cmd.Flags().StringVar(&asOf, "as-of", "", "evaluation time (RFC3339 or YYYY-MM-DD), defaults to now")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

// runAnalyze parses data and evaluates it under variant v at now.
func runAnalyze(data []byte, wallet string, v reputation.Variant, now time.Time) (types.AnalysisResponse, error) {
	fromFile, inputs, err := parseTransactions(data)
	if err != nil {
		return types.AnalysisResponse{}, err
	}
	if wallet == "" {
		wallet = fromFile
	}
	if wallet == "" {
		wallet = offlineWallet
	}

	txs := make([]model.Transaction, 0, len(inputs))
	for i, in := range inputs {
		if err := in.Validate(); err != nil {
			return types.AnalysisResponse{}, fmt.Errorf("transaction %d: %w", i, err)
		}
		txs = append(txs, in.Transaction(wallet, now))
	}

	profile, err := reputation.ProfileFor(v)
	if err != nil {
		return types.AnalysisResponse{}, err
	}
	engine, err := reputation.NewEngine(profile, reputation.WithClock(func() time.Time { return now }))
	if err != nil {
		return types.AnalysisResponse{}, err
	}
	res := engine.Evaluate(txs)
	res.Wallet = wallet
	return types.AnalysisResponse{Score: res.CanonicalScore(), Analysis: res}, nil
}

func parseTransactions(data []byte) (string, []types.TransactionInput, error) {
	var (
		doc  txFile
		list []fileTx
	)
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return "", nil, errNoTransactions
	}
	if err := yaml.Unmarshal(trimmed, &list); err != nil {
		if err := yaml.Unmarshal(trimmed, &doc); err != nil {
			return "", nil, fmt.Errorf("failed to parse transactions: %w", err)
		}
		list = doc.Transactions
	}
	if len(list) == 0 {
		return "", nil, errNoTransactions
	}

	out := make([]types.TransactionInput, len(list))
	for i, ft := range list {
		in := types.TransactionInput{
			TxID:         ft.TxID,
			Type:         ft.Type,
			Amount:       ft.Amount,
			Counterparty: ft.Counterparty,
			Note:         ft.Note,
			AIAnalyzed:   ft.AIAnalyzed,
		}
		if ft.Date != "" {
			d, err := parseDate(ft.Date)
			if err != nil {
				return "", nil, fmt.Errorf("transaction %d: %w", i, err)
			}
			in.Date = &d
		}
		out[i] = in
	}
	return doc.Wallet, out, nil
}

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognised date %q", types.ErrInvalidInput, s)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
