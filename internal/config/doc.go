// Package config defines the unified, format-agnostic representation of a
// pipeline definition, plus the Loader interface implemented by the
// format-specific front ends (hclcfg, yamlcfg).
//
// Why store raw hcl.Expression fields?
//
// Run conditions, continue-on-error predicates, and step commands are kept
// as unevaluated expressions rather than primitive Go values. Their inputs
// (upstream job conclusions, matrix assignments) only exist later — at the
// fan-in barrier or at instance expansion — so the model captures the
// user's intent and a later stage resolves it against a purpose-built
// evaluation context. Both front ends normalize into the same expression
// type, which keeps the engine entirely format-blind.
package config
