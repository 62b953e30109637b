package invoice

// documentTemplate is the fixed A4 layout: header band, merchant block,
// client block, line-items table, totals block, footer.
const documentTemplate = `<!DOCTYPE html>
<html lang="pt">
<head>
<meta charset="utf-8">
<title>Fatura {{.Number}}</title>
<style>
  body { font-family: Helvetica, Arial, sans-serif; color: #111827; margin: 0; }
  .band { background: #1e40af; color: #ffffff; padding: 16px 24px; display: flex; justify-content: space-between; }
  .band h1 { margin: 0; font-size: 28px; }
  .band .meta { text-align: right; font-size: 12px; }
  .block { padding: 12px 24px; font-size: 13px; }
  .block h2 { font-size: 14px; margin: 0 0 6px 0; }
  table { width: calc(100% - 48px); margin: 12px 24px; border-collapse: collapse; font-size: 12px; }
  th { background: #d1d5db; text-align: left; padding: 6px; }
  td { padding: 6px; border-bottom: 1px solid #e5e7eb; }
  td.num, th.num { text-align: right; }
  .totals { margin: 12px 24px; font-size: 13px; text-align: right; }
  .totals .grand { color: #16a34a; font-size: 16px; font-weight: bold; }
  .footer { color: #9ca3af; font-size: 10px; text-align: center; padding: 24px; }
</style>
</head>
<body>
<div class="band">
  <h1>FATURA</h1>
  <div class="meta">
    <div>Nº: {{.Number}}</div>
    <div>Data: {{.Date}}</div>
  </div>
</div>
<div class="block">
  <h2>{{.Merchant.StoreName}}</h2>
  <div>Telefone: {{.Merchant.Phone}}</div>
  <div>Cidade: {{.Merchant.City}}</div>
</div>
<div class="block">
  <h2>Cliente</h2>
  <div>Nome: {{.Client.Name}}</div>
  <div>Telefone: {{.Client.Phone}}</div>
  <div>Cidade: {{.Client.City}}</div>
</div>
<table>
  <thead>
    <tr><th>Item</th><th class="num">Qtde</th><th class="num">Preço Unit.</th><th class="num">Subtotal</th></tr>
  </thead>
  <tbody>
  {{range .Lines}}<tr><td>{{.Name}}</td><td class="num">{{.Quantity}}</td><td class="num">{{.UnitPrice}}</td><td class="num">{{.LineTotal}}</td></tr>
  {{end}}</tbody>
</table>
<div class="totals">
  <div>Subtotal: {{.Subtotal}}</div>
  <div>{{.TaxLabel}}: {{.Tax}}</div>
  <div class="grand">Total: {{.Total}}</div>
</div>
<div class="footer">Obrigado pela sua preferência!</div>
</body>
</html>
`
