package k8s

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
)

const assessmentYAML = `
companyInfo:
  companyName: Acme
  industry: fintech
people:
  teamSize: 25
`

func configMap(data map[string]string) *corev1.ConfigMap {
	return &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{Name: "acme-assessment", Namespace: "strategy"},
		Data:       data,
	}
}

func TestParseConfigMapRef(t *testing.T) {
	tests := []struct {
		name    string
		ref     string
		key     string
		want    ConfigMapRef
		wantErr bool
	}{
		{name: "default key", ref: "strategy/acme", want: ConfigMapRef{Namespace: "strategy", Name: "acme", Key: DefaultConfigMapKey}},
		{name: "explicit key", ref: "strategy/acme", key: "data.json", want: ConfigMapRef{Namespace: "strategy", Name: "acme", Key: "data.json"}},
		{name: "missing namespace", ref: "acme", wantErr: true},
		{name: "empty name", ref: "strategy/", wantErr: true},
		{name: "too many parts", ref: "a/b/c", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseConfigMapRef(tt.ref, tt.key)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfigMapSource_Load(t *testing.T) {
	cs := fake.NewSimpleClientset(configMap(map[string]string{DefaultConfigMapKey: assessmentYAML}))
	src := NewForClientset(cs).ConfigMapSource(ConfigMapRef{Namespace: "strategy", Name: "acme-assessment", Key: DefaultConfigMapKey})

	data, err := src.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, data.CompanyInfo)
	assert.Equal(t, "Acme", data.CompanyInfo.CompanyName)
	assert.Equal(t, "fintech", data.CompanyInfo.Industry)
	require.NotNil(t, data.People)
	assert.Equal(t, 25, data.People.TeamSize)
	assert.Nil(t, data.Capital)
}

func TestConfigMapSource_ReloadsOnEveryLoad(t *testing.T) {
	ctx := context.Background()
	cs := fake.NewSimpleClientset(configMap(map[string]string{DefaultConfigMapKey: assessmentYAML}))
	src := NewForClientset(cs).ConfigMapSource(ConfigMapRef{Namespace: "strategy", Name: "acme-assessment", Key: DefaultConfigMapKey})

	_, err := src.Load(ctx)
	require.NoError(t, err)

	updated := configMap(map[string]string{DefaultConfigMapKey: "companyInfo:\n  companyName: Globex\n"})
	_, err = cs.CoreV1().ConfigMaps("strategy").Update(ctx, updated, metav1.UpdateOptions{})
	require.NoError(t, err)

	data, err := src.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Globex", data.CompanyInfo.CompanyName)
}

func TestConfigMapSource_BinaryData(t *testing.T) {
	cm := configMap(nil)
	cm.BinaryData = map[string][]byte{"assessment.json": []byte(`{"companyInfo":{"companyName":"Acme"}}`)}
	src := NewForClientset(fake.NewSimpleClientset(cm)).
		ConfigMapSource(ConfigMapRef{Namespace: "strategy", Name: "acme-assessment", Key: "assessment.json"})

	data, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Acme", data.CompanyInfo.CompanyName)
}

func TestConfigMapSource_Errors(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		src := NewForClientset(fake.NewSimpleClientset()).
			ConfigMapSource(ConfigMapRef{Namespace: "strategy", Name: "missing", Key: DefaultConfigMapKey})
		_, err := src.Load(context.Background())
		require.Error(t, err)
		assert.True(t, apierrors.IsNotFound(err))
		assert.Contains(t, err.Error(), "configmap strategy/missing[assessment.yaml] not found")
	})

	t.Run("missing key", func(t *testing.T) {
		src := NewForClientset(fake.NewSimpleClientset(configMap(map[string]string{"other": "x"}))).
			ConfigMapSource(ConfigMapRef{Namespace: "strategy", Name: "acme-assessment", Key: DefaultConfigMapKey})
		_, err := src.Load(context.Background())
		assert.EqualError(t, err, "configmap strategy/acme-assessment[assessment.yaml]: key not present")
	})

	t.Run("undecodable", func(t *testing.T) {
		src := NewForClientset(fake.NewSimpleClientset(configMap(map[string]string{DefaultConfigMapKey: "companyInfo: [unclosed"}))).
			ConfigMapSource(ConfigMapRef{Namespace: "strategy", Name: "acme-assessment", Key: DefaultConfigMapKey})
		_, err := src.Load(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode")
	})
}
