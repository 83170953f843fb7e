package policy

import (
	"github.com/pthm-cable/hummingbird/agent"
	"github.com/pthm-cable/hummingbird/neural"
)

// Neural acts with a feedforward network.
type Neural struct {
	Net *neural.FFNN
}

func NewNeural(net *neural.FFNN) *Neural {
	return &Neural{Net: net}
}

func (n *Neural) Act(obs agent.Observation) agent.Action {
	return n.Net.Forward(obs)
}
