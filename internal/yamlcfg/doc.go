// Package yamlcfg is the YAML front end for pipeline definitions, for
// teams bringing CI workflow files in the familiar jobs/needs/matrix
// shape. It normalizes into the same format-agnostic model as the HCL
// front end: condition strings and interpolated commands are parsed into
// HCL expressions, so the engine evaluates both formats identically.
//
// Example definition:
//
//	jobs:
//	  - name: cargo-deny
//	    needs: [check]
//	    continue-on-error: matrix.check == "advisories"
//	    matrix:
//	      check: [advisories, licenses]
//	    steps:
//	      - name: deny
//	        run: cargo deny check ${matrix.check}
package yamlcfg
