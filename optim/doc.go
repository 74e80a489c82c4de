// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimization algorithms for training neural networks.
//
// # Overview
//
// This package contains:
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation with bias correction
//   - Optimizer interface for custom optimizers
//
// # Basic Usage
//
//	g := autodiff.New()
//	reg := nn.NewRegistry()
//	model, _ := nn.NewMLP(g, reg, "mlp", []int{784, 128, 10}, nil)
//	// ... wire inputs and loss ...
//
//	optimizer := optim.NewAdam(optim.AdamConfig{LR: 0.001})
//
//	for _, batch := range batches {
//	    _ = x.SetValue(batch.Features)
//	    _ = g.Forward()
//	    _ = g.Backward(loss)
//	    _ = optimizer.Step(g, reg)
//	}
//
// Parameters the last Backward did not reach are left unchanged.
package optim
