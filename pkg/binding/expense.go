package binding

import "github.com/goliatone/go-wecomflow/pkg/controls"

// ExpenseRules is the expense-claim profile in priority order: applicant,
// project, date, related approval, category, purpose, amount, remark,
// attachment.
func ExpenseRules() []Rule {
	return []Rule{
		{
			Field:    "applicant",
			Keywords: []string{"申请人"},
			Kinds:    []string{controls.KindContact},
			Encode:   contactEncoder,
		},
		{
			Field:    "project",
			Keywords: []string{"关联项目"},
			Kinds:    []string{controls.KindSelector},
			Encode:   selectorEncoder(func(in Inputs) Choice { return in.Project }),
		},
		{
			Field:    "date",
			Keywords: []string{"产生日期", "日期"},
			Kinds:    []string{controls.KindDate},
			Encode:   dateEncoder("day", func(in Inputs) int64 { return in.Date }),
		},
		{
			Field:    "related_approval",
			Keywords: []string{"关联审批单"},
			Kinds:    []string{controls.KindRelatedApproval},
			Encode:   relatedEncoder,
		},
		{
			Field:    "category",
			Keywords: []string{"类别"},
			Kinds:    []string{controls.KindSelector},
			Encode:   selectorEncoder(func(in Inputs) Choice { return in.Category }),
		},
		{
			Field:    "purpose",
			Keywords: []string{"用途说明", "用途"},
			Kinds:    textKinds,
			Encode:   textEncoder(func(in Inputs) string { return in.Purpose }),
		},
		{
			Field:    "amount",
			Keywords: []string{"报销金额", "金额"},
			Kinds:    []string{controls.KindMoney, controls.KindNumber},
			Encode:   amountEncoder,
		},
		{
			Field:    "remark",
			Keywords: []string{"备注"},
			Kinds:    textKinds,
			Encode:   textEncoder(func(in Inputs) string { return in.Remark }),
		},
		{
			Field:    "attachment",
			Keywords: []string{"报销证明", "证明图片", "附件"},
			Kinds:    []string{controls.KindFile},
			Encode:   fileEncoder,
		},
	}
}
