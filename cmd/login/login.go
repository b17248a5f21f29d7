package login

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/SafeMPC/zklogin-service/internal/chain"
	"github.com/SafeMPC/zklogin-service/internal/config"
	"github.com/SafeMPC/zklogin-service/internal/zklogin"
)

const (
	providerFlag     = "provider"
	currentEpochFlag = "current-epoch"
	rpcURLFlag       = "rpc-url"
	loginHintFlag    = "login-hint"
	promptFlag       = "prompt"
	keyClaimFlag     = "key-claim"
)

// New 返回 login 子命令：在终端驱动一次完整的交互式登录
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Runs an interactive zkLogin flow from the terminal",
		Run: func(cmd *cobra.Command, _ []string) {
			runLogin(cmd)
		},
	}

	cmd.Flags().String(providerFlag, "google", "Identity provider (google, twitch, facebook)")
	cmd.Flags().Int64(currentEpochFlag, -1, "Current epoch; pass -1 to fetch it from the fullnode")
	cmd.Flags().String(rpcURLFlag, "", "Fullnode JSON-RPC URL used to fetch the current epoch")
	cmd.Flags().String(loginHintFlag, "", "Optional login_hint passed through to the provider")
	cmd.Flags().String(promptFlag, "", "Optional prompt passed through to the provider")
	cmd.Flags().String(keyClaimFlag, "", "Key claim to pin the proof to (sub or email)")

	return cmd
}

func runLogin(cmd *cobra.Command) {
	cfg := config.DefaultServiceConfigFromEnv()
	config.InitLogger(cfg.Logger)

	provider, _ := cmd.Flags().GetString(providerFlag)
	currentEpoch, _ := cmd.Flags().GetInt64(currentEpochFlag)
	rpcURL, _ := cmd.Flags().GetString(rpcURLFlag)
	loginHint, _ := cmd.Flags().GetString(loginHintFlag)
	prompt, _ := cmd.Flags().GetString(promptFlag)
	keyClaim, _ := cmd.Flags().GetString(keyClaimFlag)

	if keyClaim == "" {
		keyClaim = cfg.ZkLogin.DefaultKeyClaim
	}

	// Ctrl-C 中断交互式流程
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if currentEpoch < 0 {
		if rpcURL == "" {
			log.Fatal().Msg("Either --current-epoch or --rpc-url is required")
		}

		epoch, err := chain.NewRPCClient(rpcURL).CurrentEpoch(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to fetch current epoch")
		}
		currentEpoch = int64(epoch)

		log.Info().Uint64("epoch", epoch).Msg("Fetched current epoch from fullnode")
	}

	providers := make(map[string]zklogin.ProviderConfig)
	for name, p := range cfg.ZkLogin.Providers() {
		providers[name] = zklogin.ProviderConfig{
			Name:              name,
			ClientID:          p.ClientID,
			AuthorizeEndpoint: p.AuthorizeURL,
			RedirectURI:       cfg.ZkLogin.RedirectURI,
		}
	}

	saltResolver := zklogin.NewRegistrySaltResolver(zklogin.SaltResolverConfig{
		Endpoint: cfg.ZkLogin.SaltServiceURL,
		Timeout:  cfg.ZkLogin.RequestTimeout,
	})

	prover := zklogin.NewProverAssembler(zklogin.ProverConfig{
		Endpoint: cfg.ZkLogin.ProverServiceURL,
		Timeout:  cfg.ZkLogin.RequestTimeout,
	})

	agent := &zklogin.BrowserAgent{RedirectURI: cfg.ZkLogin.RedirectURI}

	service := zklogin.NewService(providers, saltResolver, prover, agent, cfg.ZkLogin.SessionTTL, keyClaim)

	result, err := service.Login(ctx, provider, uint64(currentEpoch), zklogin.LoginOptions{
		LoginHint: loginHint,
		Prompt:    prompt,
	})
	if err != nil {
		if zklogin.IsUserAborted(err) {
			log.Warn().Msg("Login aborted")
			os.Exit(1)
		}
		log.Fatal().Err(err).Bool("retryable", zklogin.IsRetryable(err)).Msg("Login failed")
	}

	// 部分签名与临时密钥对一起输出，交给下游签名方组装最终交易签名
	sig, err := json.MarshalIndent(result.PartialSignature, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to encode partial signature")
	}

	fmt.Printf("address:               %s\n", result.Address)
	fmt.Printf("issuer:                %s\n", result.Claims.Issuer)
	fmt.Printf("subject:               %s\n", result.Claims.Subject)
	fmt.Printf("salt:                  %s\n", result.Salt.String())
	fmt.Printf("max epoch:             %d\n", result.Session.MaxEpoch)
	fmt.Printf("ephemeral public key:  %s\n", hex.EncodeToString(result.Session.KeyPair.PublicKey))
	fmt.Printf("ephemeral private key: %s\n", hex.EncodeToString(result.Session.KeyPair.PrivateKey))
	fmt.Printf("partial signature:\n%s\n", sig)
}
