package secret

import (
	"context"
	"fmt"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

// VersionName путь к последней версии секрета в проекте.
func VersionName(projectID, secretID string) string {
	return fmt.Sprintf("projects/%s/secrets/%s/versions/latest", projectID, secretID)
}

type Accessor interface {
	Access(ctx context.Context, name string) (string, error)
}

// Manager читает секреты из Secret Manager. Клиент живет один вызов.
type Manager struct{}

func (Manager) Access(ctx context.Context, name string) (string, error) {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("create secretmanager client: %w", err)
	}
	defer client.Close()

	resp, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return "", fmt.Errorf("access secret %s: %w", name, err)
	}

	return string(resp.GetPayload().GetData()), nil
}

// Token отдает значение одного секрета, например токен бота.
type Token struct {
	accessor Accessor
	name     string
}

func NewToken(accessor Accessor, projectID, secretID string) Token {
	return Token{accessor: accessor, name: VersionName(projectID, secretID)}
}

func (t Token) Name() string {
	return t.name
}

func (t Token) Token(ctx context.Context) (string, error) {
	return t.accessor.Access(ctx, t.name)
}
