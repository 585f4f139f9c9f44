package main

import (
	"coldsign-sol/internal/logic/analyzer"
)

// uiSummary 是分析结果的 JSON 展示形式，公钥以 base58 输出。
type uiSummary struct {
	Version string `json:"version"`

	BaseFee              uint64 `json:"baseFee"`
	PriorityFee          uint64 `json:"priorityFee"`
	PriorityFeeEstimated bool   `json:"priorityFeeEstimated"`
	TotalFee             uint64 `json:"totalFee"`

	ComputeUnitLimit      *uint32 `json:"computeUnitLimit,omitempty"`
	ComputeUnitPriceMicro *uint64 `json:"computeUnitPriceMicro,omitempty"`

	Transfers      []uiTransfer      `json:"transfers,omitempty"`
	BalanceChanges []uiBalanceChange `json:"balanceChanges,omitempty"`
	Findings       []uiFinding       `json:"findings,omitempty"`
	Warnings       []uiWarning       `json:"warnings,omitempty"`

	Overall string `json:"overallPrivacy"`
}

type uiTransfer struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Lamports uint64 `json:"lamports"`
}

type uiBalanceChange struct {
	Account string `json:"account"`
	Delta   int64  `json:"delta"`
}

type uiFinding struct {
	Program          string `json:"program"`
	InstructionIndex int    `json:"instructionIndex"`
	Level            string `json:"level"`
	Description      string `json:"description"`
}

type uiWarning struct {
	Kind    string `json:"kind"`
	Program string `json:"program,omitempty"`
}

func toUiSummary(s *analyzer.Summary) *uiSummary {
	ui := &uiSummary{
		Version:               s.Version,
		BaseFee:               s.BaseFee,
		PriorityFee:           s.PriorityFee,
		PriorityFeeEstimated:  s.PriorityFeeEstimated,
		TotalFee:              s.TotalFee,
		ComputeUnitLimit:      s.ComputeUnitLimit,
		ComputeUnitPriceMicro: s.ComputeUnitPriceMicro,
		Overall:               s.Overall.String(),
	}
	for _, t := range s.Transfers {
		ui.Transfers = append(ui.Transfers, uiTransfer{
			From:     t.From.String(),
			To:       t.To.String(),
			Lamports: t.Lamports,
		})
	}
	for _, b := range s.BalanceChanges {
		ui.BalanceChanges = append(ui.BalanceChanges, uiBalanceChange{
			Account: b.Account.String(),
			Delta:   b.Delta,
		})
	}
	for _, f := range s.Findings {
		ui.Findings = append(ui.Findings, uiFinding{
			Program:          f.Program.String(),
			InstructionIndex: f.InstructionIndex,
			Level:            f.Level.String(),
			Description:      f.Description,
		})
	}
	for _, w := range s.Warnings {
		uw := uiWarning{Kind: string(w.Kind)}
		if !w.Program.IsZero() {
			uw.Program = w.Program.String()
		}
		ui.Warnings = append(ui.Warnings, uw)
	}
	return ui
}
