package k8s

import (
	"context"
	"fmt"
	"strings"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/helmcode/strategy-ai/pkg/store"
)

// DefaultConfigMapKey is the data key holding the assessment document.
const DefaultConfigMapKey = "assessment.yaml"

type Client struct {
	clientset kubernetes.Interface
}

// NewClient creates a new Kubernetes client. In-cluster config wins; otherwise
// the kubeconfig (or the default loading rules when empty) is used with the
// optional context override.
func NewClient(kubeconfig, kubeContext string) (*Client, error) {
	config, err := rest.InClusterConfig()
	if err != nil {
		rules := clientcmd.NewDefaultClientConfigLoadingRules()
		if kubeconfig != "" {
			rules.ExplicitPath = kubeconfig
		}
		overrides := &clientcmd.ConfigOverrides{CurrentContext: kubeContext}
		config, err = clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, overrides).ClientConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to create config: %w", err)
		}
	}

	clientset, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create clientset: %w", err)
	}
	return NewForClientset(clientset), nil
}

// NewForClientset wraps an existing clientset, e.g. a fake one in tests.
func NewForClientset(cs kubernetes.Interface) *Client {
	return &Client{clientset: cs}
}

// ConfigMapRef points at one key of a ConfigMap.
type ConfigMapRef struct {
	Namespace string
	Name      string
	Key       string
}

func (r ConfigMapRef) String() string {
	return fmt.Sprintf("configmap %s/%s[%s]", r.Namespace, r.Name, r.Key)
}

// ParseConfigMapRef parses "namespace/name". An empty key falls back to
// DefaultConfigMapKey.
func ParseConfigMapRef(ref, key string) (ConfigMapRef, error) {
	parts := strings.Split(ref, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return ConfigMapRef{}, fmt.Errorf("invalid configmap reference: %s (expected namespace/name)", ref)
	}
	if key == "" {
		key = DefaultConfigMapKey
	}
	return ConfigMapRef{Namespace: parts[0], Name: parts[1], Key: key}, nil
}

// ConfigMapSource reads the assessment from a ConfigMap on every Load.
type ConfigMapSource struct {
	client *Client
	ref    ConfigMapRef
}

var _ store.Source = (*ConfigMapSource)(nil)

func (c *Client) ConfigMapSource(ref ConfigMapRef) *ConfigMapSource {
	return &ConfigMapSource{client: c, ref: ref}
}

func (s *ConfigMapSource) Load(ctx context.Context) (*store.AssessmentData, error) {
	cm, err := s.client.clientset.CoreV1().ConfigMaps(s.ref.Namespace).Get(ctx, s.ref.Name, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return nil, fmt.Errorf("%s not found: %w", s.ref, err)
		}
		return nil, fmt.Errorf("failed to get %s: %w", s.ref, err)
	}

	var raw []byte
	if v, ok := cm.Data[s.ref.Key]; ok {
		raw = []byte(v)
	} else if v, ok := cm.BinaryData[s.ref.Key]; ok {
		raw = v
	} else {
		return nil, fmt.Errorf("%s: key not present", s.ref)
	}

	data, err := store.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.ref, err)
	}
	return data, nil
}
