package hclcfg

import "github.com/hashicorp/hcl/v2"

var fileSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "job", LabelNames: []string{"name"}},
	},
}

var jobBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "needs"},
		{Name: "if"},
		{Name: "gate"},
		{Name: "runner"},
		{Name: "continue_on_error"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "matrix"},
		{Type: "step"},
	},
}

var matrixBodySchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "axis", LabelNames: []string{"name"}},
	},
}

var axisBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "values", Required: true},
	},
}

var stepBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "name"},
		{Name: "run", Required: true},
		{Name: "env"},
	},
}
