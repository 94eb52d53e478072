package model

// TokenInfo 是内置已知代币清单的一项，仅供前端下拉框使用。
type TokenInfo struct {
	Name          string `yaml:"name" json:"name"`
	Symbol        string `yaml:"symbol" json:"symbol"`
	Address       string `yaml:"address" json:"address"`
	Decimals      int    `yaml:"decimals" json:"decimals"`
	InitialSupply string `yaml:"initial_supply,omitempty" json:"initialSupply,omitempty"`
}

// TokenList 是代币清单文件的顶层结构。
type TokenList struct {
	Version string      `yaml:"version" json:"version"`
	Network string      `yaml:"network,omitempty" json:"network,omitempty"`
	Tokens  []TokenInfo `yaml:"tokens" json:"tokens"`
}
