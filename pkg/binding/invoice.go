package binding

import "github.com/goliatone/go-wecomflow/pkg/controls"

// InvoiceRules is the e-invoice profile: each Table control is filled with a
// single row built from InvoiceRowRules.
func InvoiceRules() []Rule {
	return []Rule{
		{
			Field:  "invoice_table",
			Kinds:  []string{controls.KindTable},
			Encode: tableEncoder(InvoiceRowRules()),
		},
	}
}

// InvoiceRowRules binds the cells of one invoice row.
func InvoiceRowRules() []Rule {
	return []Rule{
		{
			Field:    "invoice_no",
			Keywords: []string{"发票号"},
			Kinds:    []string{controls.KindText},
			Encode:   textEncoder(func(in Inputs) string { return in.InvoiceNo }),
		},
		{
			Field:    "attachment",
			Keywords: []string{"附件", "发票", "文件"},
			Kinds:    []string{controls.KindFile},
			Encode:   fileEncoder,
		},
		{
			Field:    "amount",
			Keywords: []string{"金额"},
			Kinds:    []string{controls.KindMoney, controls.KindNumber},
			Encode:   amountEncoder,
		},
	}
}

func tableEncoder(rowRules []Rule) Encoder {
	return func(c controls.Control, in Inputs) (any, bool, error) {
		row, err := Bind(c.Children(), rowRules, in)
		if err != nil {
			return nil, false, err
		}
		if len(row) == 0 {
			return nil, false, nil
		}
		return TableValue{Children: []TableRow{{List: row}}}, true, nil
	}
}
