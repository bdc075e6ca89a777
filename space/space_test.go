// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package space_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/tenh/space"
	"github.com/born-ml/tenh/tensor"
)

func TestSpaceAPI(t *testing.T) {
	v, err := space.NewVectorSpace("V", 3, tensor.Real)
	require.NoError(t, err)

	m, err := space.TensorProduct(v, v.Dual())
	require.NoError(t, err)
	assert.Equal(t, 9, m.Dim())
	assert.Equal(t, space.KindTensorProduct, m.Kind())

	s, err := space.SymmetricPower(2, v)
	require.NoError(t, err)
	assert.Equal(t, 6, s.Dim())

	r, err := space.LinearEmbedding(s, space.MustTensorProduct(v, v))
	require.NoError(t, err)
	assert.Equal(t, 6, r.Domain())
	assert.Equal(t, tensor.Shape{3, 3}, r.Codomain())

	_, err = space.LinearEmbedding(s, m)
	assert.ErrorIs(t, err, space.ErrNoEmbedding)

	_, err = space.NewVectorSpace("W", -1, tensor.Real)
	assert.ErrorIs(t, err, space.ErrInvalidSpace)
}
