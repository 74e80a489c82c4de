// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network layers built on an autodiff graph.
//
// # Overview
//
// This package contains:
//   - Layers: Linear
//   - Activations: ReLU
//   - Utilities: Sequential, MLP, Module interface, Parameter, Registry
//   - Initialization: Xavier, He
//   - Helpers: OneHot targets, Accuracy
//
// Layers add nodes to a caller-owned Graph and register their weights in a
// caller-owned Registry, which optimizers and checkpoints then walk.
//
// # Basic Usage
//
//	g := autodiff.New()
//	reg := nn.NewRegistry()
//	model, _ := nn.NewMLP(g, reg, "mlp", []int{784, 128, 10}, nil)
//
//	x := g.Input("x", nil)           // (batch, 1, 784)
//	y := g.Input("y", nil)           // (batch, 1, 10) one-hot
//	logits, _ := model.Forward(x)
//	loss, _ := g.SoftmaxCrossEntropy(logits, y)
//
// # Data Layout
//
// Samples are row vectors: a batch is shaped (batch, 1, features), so every
// sample's logits form a (1, classes) row that softmax normalizes.
package nn
