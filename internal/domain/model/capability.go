package model

// Capability identifies one of the fixed AI task categories. The set is
// closed: every capability resolves in the registry below, and an unknown
// value is a caller error.
type Capability string

const (
	CapabilityAppGenerator          Capability = "app-generator"
	CapabilityIntelligenceWorkspace Capability = "intelligence-workspace"
	CapabilityBusinessBuilder       Capability = "business-builder"
	CapabilityResearchEngine        Capability = "research-engine"
	CapabilityRevenueSuite          Capability = "revenue-suite"
	CapabilityAutomationEngine      Capability = "automation-engine"
	CapabilityIntegrationHub        Capability = "integration-hub"
	CapabilityAIWorkforce           Capability = "ai-workforce"
	CapabilityQuantumEngine         Capability = "quantum-engine"
	CapabilitySecurityLayer         Capability = "security-layer"
	CapabilityEvolutionLayer        Capability = "evolution-layer"
	CapabilityGlobalNetwork         Capability = "global-network"
)

// CapabilitySpec binds a capability to the gateway mode tag that selects its
// system prompt, a human-readable display name, and the fixed instruction
// template. User input is appended after the template, never injected into it.
type CapabilitySpec struct {
	Mode        string
	DisplayName string
	Template    string
}

var capabilitySpecs = map[Capability]CapabilitySpec{
	CapabilityAppGenerator: {
		Mode:        "builder",
		DisplayName: "App Generator",
		Template: `You are the AIBLTY App Generator. Produce a complete application blueprint for the request below.
Structure your answer with these sections:
## Overview
## Core Features
## Data Model
## API Design
## Tech Stack
## Implementation Plan
Be concrete and implementation-ready.`,
	},
	CapabilityIntelligenceWorkspace: {
		Mode:        "analyst",
		DisplayName: "Intelligence Workspace",
		Template: `You are the AIBLTY Intelligence Workspace. Analyze the request below and deliver a working document.
Structure your answer with these sections:
## Summary
## Key Insights
## Supporting Analysis
## Open Questions
## Recommended Next Steps`,
	},
	CapabilityBusinessBuilder: {
		Mode:        "strategist",
		DisplayName: "Business Builder",
		Template: `You are the AIBLTY Business Builder. Draft a complete business plan for the idea below.
Structure your answer with these sections:
## Executive Summary
## Market Analysis
## Product & Positioning
## Go-To-Market Strategy
## Financial Projections
## Risks & Mitigations`,
	},
	CapabilityResearchEngine: {
		Mode:        "researcher",
		DisplayName: "Research Engine",
		Template: `You are the AIBLTY Research Engine. Produce a thorough research report on the topic below.
Structure your answer with these sections:
## Abstract
## Background
## Findings
## Comparative Analysis
## Sources & Caveats
## Conclusion`,
	},
	CapabilityRevenueSuite: {
		Mode:        "strategist",
		DisplayName: "Revenue Suite",
		Template: `You are the AIBLTY Revenue Suite. Build a revenue growth plan for the business described below.
Structure your answer with these sections:
## Revenue Snapshot
## Pricing Strategy
## Sales Funnel
## Expansion Opportunities
## 90-Day Action Plan`,
	},
	CapabilityAutomationEngine: {
		Mode:        "builder",
		DisplayName: "Automation Engine",
		Template: `You are the AIBLTY Automation Engine. Design end-to-end automations for the workflow described below.
Structure your answer with these sections:
## Workflow Map
## Automation Candidates
## Trigger & Action Design
## Tooling
## Rollout Plan`,
	},
	CapabilityIntegrationHub: {
		Mode:        "builder",
		DisplayName: "Integration Hub",
		Template: `You are the AIBLTY Integration Hub. Design the integrations required by the request below.
Structure your answer with these sections:
## Systems Involved
## Data Contracts
## Sync Strategy
## Failure Handling
## Implementation Steps`,
	},
	CapabilityAIWorkforce: {
		Mode:        "operator",
		DisplayName: "AI Workforce",
		Template: `You are the AIBLTY AI Workforce planner. Design a team of AI agents for the objective below.
Structure your answer with these sections:
## Mission
## Agent Roster & Roles
## Task Decomposition
## Coordination & Handoffs
## Quality Controls`,
	},
	CapabilityQuantumEngine: {
		Mode:        "analyst",
		DisplayName: "Quantum Engine",
		Template: `You are the AIBLTY Quantum Engine. Run a deep multi-scenario analysis of the problem below.
Structure your answer with these sections:
## Problem Framing
## Scenario Matrix
## Probability-Weighted Outcomes
## Sensitivity Analysis
## Recommendation`,
	},
	CapabilitySecurityLayer: {
		Mode:        "auditor",
		DisplayName: "Security Layer",
		Template: `You are the AIBLTY Security Layer. Produce a security assessment for the system described below.
Structure your answer with these sections:
## Threat Model
## Attack Surface
## Findings by Severity
## Hardening Recommendations
## Compliance Notes`,
	},
	CapabilityEvolutionLayer: {
		Mode:        "analyst",
		DisplayName: "Evolution Layer",
		Template: `You are the AIBLTY Evolution Layer. Design a continuous-improvement program for the product below.
Structure your answer with these sections:
## Current State
## Feedback Loops
## Experiment Backlog
## Metrics & Targets
## Iteration Cadence`,
	},
	CapabilityGlobalNetwork: {
		Mode:        "strategist",
		DisplayName: "Global Network",
		Template: `You are the AIBLTY Global Network. Build an international expansion plan for the business below.
Structure your answer with these sections:
## Market Prioritization
## Localization Requirements
## Regulatory Landscape
## Partnership Strategy
## Launch Sequence`,
	},
}

// LookupCapability resolves a capability to its spec. The bool is false for
// identifiers outside the fixed set.
func LookupCapability(c Capability) (CapabilitySpec, bool) {
	spec, ok := capabilitySpecs[c]
	return spec, ok
}

// AllCapabilities returns the fixed set in a stable order.
func AllCapabilities() []Capability {
	return []Capability{
		CapabilityAppGenerator,
		CapabilityIntelligenceWorkspace,
		CapabilityBusinessBuilder,
		CapabilityResearchEngine,
		CapabilityRevenueSuite,
		CapabilityAutomationEngine,
		CapabilityIntegrationHub,
		CapabilityAIWorkforce,
		CapabilityQuantumEngine,
		CapabilitySecurityLayer,
		CapabilityEvolutionLayer,
		CapabilityGlobalNetwork,
	}
}
