package labels_test

import (
	"testing"

	"github.com/addrbook/contact-bridge-service/internal/labels"
	"github.com/addrbook/contact-bridge-service/internal/model"
)

func TestResolve(t *testing.T) {

	rsv := labels.NewResolver(
		labels.WithResources(map[string]string{
			"phone.mobile": "mobil",
		}),
	)

	tests := []struct {
		name     string
		kind     labels.Kind
		code     model.CategoryCode
		custom   string
		localize bool
		want     string
	}{
		{
			name:   "custom returns label verbatim",
			kind:   labels.Phone,
			code:   model.CategoryCustom,
			custom: "Mom",
			want:   "Mom",
		},
		{
			name: "custom with blank label stays blank",
			kind: labels.Phone,
			code: model.CategoryCustom,
			want: "",
		},
		{
			name: "canonical phone",
			kind: labels.Phone,
			code: model.PhoneFaxWork,
			want: "fax work",
		},
		{
			name: "unknown code falls back to other",
			kind: labels.Phone,
			code: model.CategoryCode(99),
			want: "other",
		},
		{
			name:     "localized hit",
			kind:     labels.Phone,
			code:     model.PhoneMobile,
			localize: true,
			want:     "mobil",
		},
		{
			name:     "localized miss falls back to canonical",
			kind:     labels.Email,
			code:     model.EmailWork,
			localize: true,
			want:     "work",
		},
		{
			name: "address home",
			kind: labels.Address,
			code: model.AddressHome,
			want: "home",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rsv.Resolve(tt.kind, tt.code, tt.custom, tt.localize)
			if got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}
