// Package hclcfg is the native HCL front end for pipeline definitions. It
// parses `job` blocks into the format-agnostic config model, capturing run
// conditions, continue-on-error predicates, and step commands as deferred
// expressions for later evaluation.
//
// Example definition:
//
//	job "cargo-deny" {
//	  needs             = ["check"]
//	  continue_on_error = matrix.check == "advisories"
//
//	  matrix {
//	    axis "check" {
//	      values = ["advisories", "licenses"]
//	    }
//	  }
//
//	  step "deny" {
//	    run = "cargo deny check ${matrix.check}"
//	  }
//	}
package hclcfg
