package templates

import "github.com/AtRiskMedia/landingkit/internal/domain/entities/product"

// GenerateComponentSource returns placeholder component source carrying only
// the product name. The name is embedded verbatim.
func GenerateComponentSource(r product.Record) string {
	return `
import React from 'react';

const ProductLandingPage = () => {
  return (
    <div>
      <h1>` + r.Name + `</h1>
      <p>React component code would be generated here</p>
    </div>
  );
};

export default ProductLandingPage;
`
}
