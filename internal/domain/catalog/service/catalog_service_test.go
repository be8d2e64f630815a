package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Notebook Gamer Nitro 5", "notebook-gamer-nitro-5"},
		{"Memória RAM 16GB", "memoria-ram-16gb"},
		{"Placa de Vídeo RTX 4060", "placa-de-video-rtx-4060"},
		{"  Fonte  650W  ", "fonte-650w"},
		{"Ação & Promoção!!", "acao-promocao"},
		{"ÁÉÍÓÚ", "aeiou"},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, Slugify(tc.in))
		})
	}
}
