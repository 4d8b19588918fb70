package config

import (
	"github.com/mantlenetworkio/faucet-devnet/op-service/eth"
)

// Ether is an amount written as decimal ether in config files, e.g. "5" or ".1".
type Ether eth.ETH

func (e Ether) ETH() eth.ETH {
	return eth.ETH(e)
}

func (e *Ether) UnmarshalText(data []byte) error {
	v, err := eth.ParseEther(string(data))
	if err != nil {
		return err
	}
	*e = Ether(v)
	return nil
}

func (e Ether) MarshalText() ([]byte, error) {
	return []byte(eth.ETH(e).EtherString()), nil
}

// GWei is an amount written as decimal gwei in config files, e.g. "1" or "0.5".
type GWei eth.ETH

func (g GWei) ETH() eth.ETH {
	return eth.ETH(g)
}

func (g *GWei) UnmarshalText(data []byte) error {
	v, err := eth.ParseUnits(string(data), 9)
	if err != nil {
		return err
	}
	*g = GWei(v)
	return nil
}

func (g GWei) MarshalText() ([]byte, error) {
	return []byte(eth.ETH(g).FormatUnits(9)), nil
}
