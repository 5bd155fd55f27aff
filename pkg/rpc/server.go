// Package rpc provides the JSON-RPC server for the passgate node.
package rpc

import (
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/verdant-labs/passgate/pkg/backend"
	"github.com/verdant-labs/passgate/pkg/sale"
)

// JSON-RPC error codes.
const (
	ErrCodeParseError     = -32700
	ErrCodeInvalidRequest = -32600
	ErrCodeMethodNotFound = -32601
	ErrCodeInvalidParams  = -32602
	ErrCodeInternal       = -32603
	ErrCodeEngine         = -32000
)

// Version information.
const (
	ClientVersion = "passgate/v0.1.0"
)

// Request represents a JSON-RPC request.
type Request struct {
	Jsonrpc string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

// Response represents a JSON-RPC response.
type Response struct {
	Jsonrpc string       `json:"jsonrpc"`
	ID      interface{}  `json:"id"`
	Result  interface{}  `json:"result,omitempty"`
	Error   *ErrorObject `json:"error,omitempty"`
}

// ErrorObject represents a JSON-RPC error.
type ErrorObject struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Server exposes the sale engines over JSON-RPC.
type Server struct {
	backend *backend.Backend
}

// NewServer creates a new RPC server.
func NewServer(b *backend.Backend) *Server {
	return &Server{backend: b}
}

// ServeHTTP handles HTTP requests.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, nil, ErrCodeParseError, "Failed to read request body")
		return
	}

	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, nil, ErrCodeParseError, "Parse error")
		return
	}

	result, rpcErr := s.handleMethod(req.Method, req.Params)
	if rpcErr != nil {
		s.writeError(w, req.ID, rpcErr.Code, rpcErr.Message)
		return
	}

	json.NewEncoder(w).Encode(Response{
		Jsonrpc: "2.0",
		ID:      req.ID,
		Result:  result,
	})
}

func (s *Server) writeError(w http.ResponseWriter, id interface{}, code int, message string) {
	json.NewEncoder(w).Encode(Response{
		Jsonrpc: "2.0",
		ID:      id,
		Error: &ErrorObject{
			Code:    code,
			Message: message,
		},
	})
}

func (s *Server) handleMethod(method string, params json.RawMessage) (interface{}, *ErrorObject) {
	switch method {
	// node_* methods
	case "node_clientVersion":
		return ClientVersion, nil
	case "node_accounts":
		return s.nodeAccounts()
	case "node_timestamp":
		return s.backend.Clock().Now(), nil
	case "node_setTime":
		return s.nodeSetTime(params)
	case "node_increaseTime":
		return s.nodeIncreaseTime(params)
	case "node_resetTime":
		s.backend.Clock().Reset()
		return true, nil

	// token_* methods
	case "token_balanceOf":
		return s.tokenBalanceOf(params)
	case "token_allowance":
		return s.tokenAllowance(params)
	case "token_approve":
		return s.tokenApprove(params)
	case "token_totalSupply":
		return s.tokenTotalSupply()

	// sale_* read methods
	case "sale_list":
		return s.saleList()
	case "sale_status":
		return s.saleStatus(params)
	case "sale_selfMinted":
		return s.saleSelfMinted(params)
	case "sale_proof":
		return s.saleProof(params)
	case "sale_royaltyQuote":
		return s.saleRoyaltyQuote(params)
	case "sale_events":
		return s.saleEvents(params)

	// sale_* mint methods
	case "sale_mint":
		return s.saleMint(params)
	case "sale_agentMint":
		return s.saleAgentMint(params)

	// sale_* admin methods
	case "sale_setWindow":
		return s.saleSetWindow(params)
	case "sale_setAllowlistRoot":
		return s.saleSetAllowlistRoot(params)
	case "sale_setAllowlist":
		return s.saleSetAllowlist(params)
	case "sale_setPrices":
		return s.saleSetPrices(params)
	case "sale_grantAgent":
		return s.saleGrantAgent(params)
	case "sale_revokeAgent":
		return s.saleRevokeAgent(params)
	case "sale_setTreasury":
		return s.saleSetTreasury(params)
	case "sale_setRoyalty":
		return s.saleSetRoyalty(params)
	case "sale_setBaseURI":
		return s.saleSetBaseURI(params)
	case "sale_freezeMetadata":
		return s.saleFreezeMetadata(params)
	case "sale_pause":
		return s.salePause(params)
	case "sale_unpause":
		return s.saleUnpause(params)
	case "sale_withdraw":
		return s.saleWithdraw(params)
	case "sale_authorizeUpgrade":
		return s.saleAuthorizeUpgrade(params)

	default:
		return nil, &ErrorObject{Code: ErrCodeMethodNotFound, Message: "Method not found"}
	}
}

// engineError wraps engine rejections for the caller.
func engineError(err error) *ErrorObject {
	return &ErrorObject{Code: ErrCodeEngine, Message: err.Error()}
}

func invalidParams(message string) *ErrorObject {
	return &ErrorObject{Code: ErrCodeInvalidParams, Message: message}
}

// parseAmount parses a decimal or 0x-prefixed amount string.
func parseAmount(raw string) (*big.Int, bool) {
	if strings.HasPrefix(raw, "0x") {
		amount, err := hexutil.DecodeBig(raw)
		if err != nil {
			return nil, false
		}
		return amount, true
	}
	amount, ok := new(big.Int).SetString(raw, 10)
	if !ok || amount.Sign() < 0 {
		return nil, false
	}
	return amount, true
}

func (s *Server) engine(symbol string) (*sale.Engine, *ErrorObject) {
	sl, ok := s.backend.Sale(symbol)
	if !ok {
		return nil, invalidParams("Unknown sale symbol")
	}
	return sl.Engine, nil
}

func (s *Server) nodeAccounts() (interface{}, *ErrorObject) {
	accounts := s.backend.Accounts()
	out := make([]string, len(accounts))
	for i, acc := range accounts {
		out[i] = acc.Hex()
	}
	return out, nil
}

func (s *Server) nodeSetTime(params json.RawMessage) (interface{}, *ErrorObject) {
	var args []interface{}
	if err := json.Unmarshal(params, &args); err != nil || len(args) < 1 {
		return nil, invalidParams("Invalid params")
	}
	raw, ok := args[0].(float64)
	if !ok || raw <= 0 {
		return nil, invalidParams("Invalid timestamp")
	}

	s.backend.Clock().SetTime(int64(raw))
	return s.backend.Clock().Now(), nil
}

func (s *Server) nodeIncreaseTime(params json.RawMessage) (interface{}, *ErrorObject) {
	var args []interface{}
	if err := json.Unmarshal(params, &args); err != nil || len(args) < 1 {
		return nil, invalidParams("Invalid params")
	}
	raw, ok := args[0].(float64)
	if !ok {
		return nil, invalidParams("Invalid seconds")
	}

	return s.backend.Clock().IncreaseTime(int64(raw)), nil
}

func (s *Server) tokenBalanceOf(params json.RawMessage) (interface{}, *ErrorObject) {
	var args []interface{}
	if err := json.Unmarshal(params, &args); err != nil || len(args) < 1 {
		return nil, invalidParams("Invalid params")
	}

	addrStr, ok := args[0].(string)
	if !ok {
		return nil, invalidParams("Invalid address")
	}

	balance := s.backend.SettlementToken().BalanceOf(common.HexToAddress(addrStr))
	return balance.String(), nil
}

func (s *Server) tokenAllowance(params json.RawMessage) (interface{}, *ErrorObject) {
	var args []interface{}
	if err := json.Unmarshal(params, &args); err != nil || len(args) < 2 {
		return nil, invalidParams("Invalid params")
	}

	ownerStr, ok1 := args[0].(string)
	spenderStr, ok2 := args[1].(string)
	if !ok1 || !ok2 {
		return nil, invalidParams("Invalid address")
	}

	allowance := s.backend.SettlementToken().Allowance(
		common.HexToAddress(ownerStr), common.HexToAddress(spenderStr))
	return allowance.String(), nil
}

func (s *Server) tokenApprove(params json.RawMessage) (interface{}, *ErrorObject) {
	var args []interface{}
	if err := json.Unmarshal(params, &args); err != nil || len(args) < 3 {
		return nil, invalidParams("Invalid params")
	}

	ownerStr, ok1 := args[0].(string)
	spenderStr, ok2 := args[1].(string)
	amountStr, ok3 := args[2].(string)
	if !ok1 || !ok2 || !ok3 {
		return nil, invalidParams("Invalid params")
	}
	amount, ok := parseAmount(amountStr)
	if !ok {
		return nil, invalidParams("Invalid amount")
	}

	if err := s.backend.SettlementToken().Approve(
		common.HexToAddress(ownerStr), common.HexToAddress(spenderStr), amount); err != nil {
		return nil, engineError(err)
	}
	return true, nil
}

func (s *Server) tokenTotalSupply() (interface{}, *ErrorObject) {
	return s.backend.SettlementToken().TotalSupply().String(), nil
}

func (s *Server) saleList() (interface{}, *ErrorObject) {
	return s.backend.Symbols(), nil
}

// StatusResult is the sale_status response.
type StatusResult struct {
	Name              string          `json:"name"`
	Symbol            string          `json:"symbol"`
	Phase             string          `json:"phase"`
	Paused            bool            `json:"paused"`
	Window            sale.SaleWindow `json:"window"`
	AllowlistRoot     string          `json:"allowlistRoot"`
	MaxSupply         uint64          `json:"maxSupply"`
	PublicAllocation  uint64          `json:"publicAllocation"`
	ReservedAlloc     uint64          `json:"reservedAllocation"`
	MaxPerWallet      uint64          `json:"maxPerWallet"`
	PublicMinted      uint64          `json:"publicMinted"`
	ReservedMinted    uint64          `json:"reservedMinted"`
	RemainingPublic   uint64          `json:"remainingPublic"`
	RemainingReserved uint64          `json:"remainingReserved"`
	TotalIssued       uint64          `json:"totalIssued"`
	WhitelistPrice    string          `json:"whitelistPrice"`
	PublicPrice       string          `json:"publicPrice"`
	Treasury          string          `json:"treasury"`
	EngineAddress     string          `json:"engineAddress"`
	BaseURI           string          `json:"baseURI"`
	MetadataFrozen    bool            `json:"metadataFrozen"`
}

func (s *Server) saleStatus(params json.RawMessage) (interface{}, *ErrorObject) {
	var args []interface{}
	if err := json.Unmarshal(params, &args); err != nil || len(args) < 1 {
		return nil, invalidParams("Invalid params")
	}
	symbol, ok := args[0].(string)
	if !ok {
		return nil, invalidParams("Invalid symbol")
	}
	engine, rpcErr := s.engine(symbol)
	if rpcErr != nil {
		return nil, rpcErr
	}

	p := engine.Params()
	return StatusResult{
		Name:              p.Name,
		Symbol:            p.Symbol,
		Phase:             engine.Phase().String(),
		Paused:            engine.Paused(),
		Window:            engine.Window(),
		AllowlistRoot:     engine.AllowlistRoot().Hex(),
		MaxSupply:         p.MaxSupply,
		PublicAllocation:  p.PublicAllocation,
		ReservedAlloc:     p.ReservedAllocation,
		MaxPerWallet:      p.MaxPerWallet,
		PublicMinted:      engine.PublicMinted(),
		ReservedMinted:    engine.ReservedMinted(),
		RemainingPublic:   engine.RemainingPublic(),
		RemainingReserved: engine.RemainingReserved(),
		TotalIssued:       engine.TotalIssued(),
		WhitelistPrice:    p.WhitelistPrice.String(),
		PublicPrice:       p.PublicPrice.String(),
		Treasury:          engine.Treasury().Hex(),
		EngineAddress:     engine.Address().Hex(),
		BaseURI:           engine.Collection().BaseURI(),
		MetadataFrozen:    engine.Collection().Frozen(),
	}, nil
}

func (s *Server) saleSelfMinted(params json.RawMessage) (interface{}, *ErrorObject) {
	var args []interface{}
	if err := json.Unmarshal(params, &args); err != nil || len(args) < 2 {
		return nil, invalidParams("Invalid params")
	}
	symbol, ok1 := args[0].(string)
	addrStr, ok2 := args[1].(string)
	if !ok1 || !ok2 {
		return nil, invalidParams("Invalid params")
	}
	engine, rpcErr := s.engine(symbol)
	if rpcErr != nil {
		return nil, rpcErr
	}
	return engine.SelfMinted(common.HexToAddress(addrStr)), nil
}

func (s *Server) saleProof(params json.RawMessage) (interface{}, *ErrorObject) {
	var args []interface{}
	if err := json.Unmarshal(params, &args); err != nil || len(args) < 2 {
		return nil, invalidParams("Invalid params")
	}
	symbol, ok1 := args[0].(string)
	addrStr, ok2 := args[1].(string)
	if !ok1 || !ok2 {
		return nil, invalidParams("Invalid params")
	}

	proof, err := s.backend.Proof(symbol, common.HexToAddress(addrStr))
	if err != nil {
		return nil, engineError(err)
	}
	out := make([]string, len(proof))
	for i, h := range proof {
		out[i] = h.Hex()
	}
	return out, nil
}

func (s *Server) saleRoyaltyQuote(params json.RawMessage) (interface{}, *ErrorObject) {
	var args []interface{}
	if err := json.Unmarshal(params, &args); err != nil || len(args) < 2 {
		return nil, invalidParams("Invalid params")
	}
	symbol, ok1 := args[0].(string)
	priceStr, ok2 := args[1].(string)
	if !ok1 || !ok2 {
		return nil, invalidParams("Invalid params")
	}
	price, ok := parseAmount(priceStr)
	if !ok {
		return nil, invalidParams("Invalid price")
	}
	engine, rpcErr := s.engine(symbol)
	if rpcErr != nil {
		return nil, rpcErr
	}

	receiver, amount := engine.RoyaltyQuote(price)
	return map[string]string{
		"receiver": receiver.Hex(),
		"amount":   amount.String(),
	}, nil
}

func (s *Server) saleEvents(params json.RawMessage) (interface{}, *ErrorObject) {
	var args []interface{}
	if err := json.Unmarshal(params, &args); err != nil || len(args) < 1 {
		return nil, invalidParams("Invalid params")
	}
	symbol, ok := args[0].(string)
	if !ok {
		return nil, invalidParams("Invalid symbol")
	}
	engine, rpcErr := s.engine(symbol)
	if rpcErr != nil {
		return nil, rpcErr
	}

	since := uint64(0)
	if len(args) > 1 {
		if raw, ok := args[1].(float64); ok {
			since = uint64(raw)
		}
	}
	return engine.Events().Since(since), nil
}

// MintArgs are the sale_mint parameters.
type MintArgs struct {
	Symbol string   `json:"symbol"`
	Caller string   `json:"caller"`
	Amount uint64   `json:"amount"`
	Proof  []string `json:"proof,omitempty"`
}

// MintResult is the sale_mint response.
type MintResult struct {
	Phase     string   `json:"phase"`
	TokenIDs  []uint64 `json:"tokenIds"`
	UnitPrice string   `json:"unitPrice"`
	Payment   string   `json:"payment"`
}

func (s *Server) saleMint(params json.RawMessage) (interface{}, *ErrorObject) {
	var argList []MintArgs
	if err := json.Unmarshal(params, &argList); err != nil || len(argList) < 1 {
		return nil, invalidParams("Invalid params")
	}
	args := argList[0]

	engine, rpcErr := s.engine(args.Symbol)
	if rpcErr != nil {
		return nil, rpcErr
	}

	proof := make([]common.Hash, len(args.Proof))
	for i, h := range args.Proof {
		proof[i] = common.HexToHash(h)
	}

	receipt, err := engine.Mint(common.HexToAddress(args.Caller), args.Amount, proof)
	if err != nil {
		return nil, engineError(err)
	}
	return MintResult{
		Phase:     receipt.Phase.String(),
		TokenIDs:  receipt.TokenIDs,
		UnitPrice: receipt.UnitPrice.String(),
		Payment:   receipt.Payment.String(),
	}, nil
}

// AgentMintArgs are the sale_agentMint parameters.
type AgentMintArgs struct {
	Symbol     string   `json:"symbol"`
	Caller     string   `json:"caller"`
	Recipients []string `json:"recipients"`
	Amounts    []uint64 `json:"amounts"`
}

func (s *Server) saleAgentMint(params json.RawMessage) (interface{}, *ErrorObject) {
	var argList []AgentMintArgs
	if err := json.Unmarshal(params, &argList); err != nil || len(argList) < 1 {
		return nil, invalidParams("Invalid params")
	}
	args := argList[0]

	engine, rpcErr := s.engine(args.Symbol)
	if rpcErr != nil {
		return nil, rpcErr
	}

	recipients := make([]common.Address, len(args.Recipients))
	for i, r := range args.Recipients {
		recipients[i] = common.HexToAddress(r)
	}

	ids, err := engine.AgentMint(common.HexToAddress(args.Caller), recipients, args.Amounts)
	if err != nil {
		return nil, engineError(err)
	}
	return ids, nil
}

// SetWindowArgs are the sale_setWindow parameters.
type SetWindowArgs struct {
	Symbol         string `json:"symbol"`
	Caller         string `json:"caller"`
	WhitelistStart int64  `json:"whitelistStart"`
	WhitelistEnd   int64  `json:"whitelistEnd"`
	Active         bool   `json:"active"`
}

func (s *Server) saleSetWindow(params json.RawMessage) (interface{}, *ErrorObject) {
	var argList []SetWindowArgs
	if err := json.Unmarshal(params, &argList); err != nil || len(argList) < 1 {
		return nil, invalidParams("Invalid params")
	}
	args := argList[0]

	engine, rpcErr := s.engine(args.Symbol)
	if rpcErr != nil {
		return nil, rpcErr
	}

	err := engine.SetSaleWindow(common.HexToAddress(args.Caller), sale.SaleWindow{
		WhitelistStart: args.WhitelistStart,
		WhitelistEnd:   args.WhitelistEnd,
		Active:         args.Active,
	})
	if err != nil {
		return nil, engineError(err)
	}
	return true, nil
}

func (s *Server) saleSetAllowlistRoot(params json.RawMessage) (interface{}, *ErrorObject) {
	symbol, caller, extra, rpcErr := s.symbolCallerArgs(params, 1)
	if rpcErr != nil {
		return nil, rpcErr
	}
	engine, rpcErr := s.engine(symbol)
	if rpcErr != nil {
		return nil, rpcErr
	}

	if err := engine.SetAllowlistRoot(caller, common.HexToHash(extra[0])); err != nil {
		return nil, engineError(err)
	}
	return true, nil
}

// SetAllowlistArgs are the sale_setAllowlist parameters.
type SetAllowlistArgs struct {
	Symbol   string   `json:"symbol"`
	Caller   string   `json:"caller"`
	Accounts []string `json:"accounts"`
}

func (s *Server) saleSetAllowlist(params json.RawMessage) (interface{}, *ErrorObject) {
	var argList []SetAllowlistArgs
	if err := json.Unmarshal(params, &argList); err != nil || len(argList) < 1 {
		return nil, invalidParams("Invalid params")
	}
	args := argList[0]

	accounts := make([]common.Address, len(args.Accounts))
	for i, a := range args.Accounts {
		accounts[i] = common.HexToAddress(a)
	}

	root, err := s.backend.SetAllowlist(args.Symbol, common.HexToAddress(args.Caller), accounts)
	if err != nil {
		return nil, engineError(err)
	}
	return root.Hex(), nil
}

func (s *Server) saleSetPrices(params json.RawMessage) (interface{}, *ErrorObject) {
	symbol, caller, extra, rpcErr := s.symbolCallerArgs(params, 2)
	if rpcErr != nil {
		return nil, rpcErr
	}
	engine, rpcErr := s.engine(symbol)
	if rpcErr != nil {
		return nil, rpcErr
	}

	whitelistPrice, ok1 := parseAmount(extra[0])
	publicPrice, ok2 := parseAmount(extra[1])
	if !ok1 || !ok2 {
		return nil, invalidParams("Invalid price")
	}

	if err := engine.SetPrices(caller, whitelistPrice, publicPrice); err != nil {
		return nil, engineError(err)
	}
	return true, nil
}

func (s *Server) saleGrantAgent(params json.RawMessage) (interface{}, *ErrorObject) {
	symbol, caller, extra, rpcErr := s.symbolCallerArgs(params, 1)
	if rpcErr != nil {
		return nil, rpcErr
	}
	engine, rpcErr := s.engine(symbol)
	if rpcErr != nil {
		return nil, rpcErr
	}

	if err := engine.GrantAgentMinter(caller, common.HexToAddress(extra[0])); err != nil {
		return nil, engineError(err)
	}
	return true, nil
}

func (s *Server) saleRevokeAgent(params json.RawMessage) (interface{}, *ErrorObject) {
	symbol, caller, extra, rpcErr := s.symbolCallerArgs(params, 1)
	if rpcErr != nil {
		return nil, rpcErr
	}
	engine, rpcErr := s.engine(symbol)
	if rpcErr != nil {
		return nil, rpcErr
	}

	if err := engine.RevokeAgentMinter(caller, common.HexToAddress(extra[0])); err != nil {
		return nil, engineError(err)
	}
	return true, nil
}

func (s *Server) saleSetTreasury(params json.RawMessage) (interface{}, *ErrorObject) {
	symbol, caller, extra, rpcErr := s.symbolCallerArgs(params, 1)
	if rpcErr != nil {
		return nil, rpcErr
	}
	engine, rpcErr := s.engine(symbol)
	if rpcErr != nil {
		return nil, rpcErr
	}

	if err := engine.SetTreasury(caller, common.HexToAddress(extra[0])); err != nil {
		return nil, engineError(err)
	}
	return true, nil
}

func (s *Server) saleSetRoyalty(params json.RawMessage) (interface{}, *ErrorObject) {
	var args []interface{}
	if err := json.Unmarshal(params, &args); err != nil || len(args) < 4 {
		return nil, invalidParams("Invalid params")
	}
	symbol, ok1 := args[0].(string)
	callerStr, ok2 := args[1].(string)
	receiverStr, ok3 := args[2].(string)
	bps, ok4 := args[3].(float64)
	if !ok1 || !ok2 || !ok3 || !ok4 || bps < 0 || bps > 10000 {
		return nil, invalidParams("Invalid params")
	}
	engine, rpcErr := s.engine(symbol)
	if rpcErr != nil {
		return nil, rpcErr
	}

	err := engine.SetRoyalty(common.HexToAddress(callerStr), common.HexToAddress(receiverStr), uint16(bps))
	if err != nil {
		return nil, engineError(err)
	}
	return true, nil
}

func (s *Server) saleSetBaseURI(params json.RawMessage) (interface{}, *ErrorObject) {
	symbol, caller, extra, rpcErr := s.symbolCallerArgs(params, 1)
	if rpcErr != nil {
		return nil, rpcErr
	}
	engine, rpcErr := s.engine(symbol)
	if rpcErr != nil {
		return nil, rpcErr
	}

	if err := engine.SetBaseURI(caller, extra[0]); err != nil {
		return nil, engineError(err)
	}
	return true, nil
}

func (s *Server) saleFreezeMetadata(params json.RawMessage) (interface{}, *ErrorObject) {
	symbol, caller, _, rpcErr := s.symbolCallerArgs(params, 0)
	if rpcErr != nil {
		return nil, rpcErr
	}
	engine, rpcErr := s.engine(symbol)
	if rpcErr != nil {
		return nil, rpcErr
	}

	if err := engine.FreezeMetadata(caller); err != nil {
		return nil, engineError(err)
	}
	return true, nil
}

func (s *Server) salePause(params json.RawMessage) (interface{}, *ErrorObject) {
	symbol, caller, _, rpcErr := s.symbolCallerArgs(params, 0)
	if rpcErr != nil {
		return nil, rpcErr
	}
	engine, rpcErr := s.engine(symbol)
	if rpcErr != nil {
		return nil, rpcErr
	}

	if err := engine.Pause(caller); err != nil {
		return nil, engineError(err)
	}
	return true, nil
}

func (s *Server) saleUnpause(params json.RawMessage) (interface{}, *ErrorObject) {
	symbol, caller, _, rpcErr := s.symbolCallerArgs(params, 0)
	if rpcErr != nil {
		return nil, rpcErr
	}
	engine, rpcErr := s.engine(symbol)
	if rpcErr != nil {
		return nil, rpcErr
	}

	if err := engine.Unpause(caller); err != nil {
		return nil, engineError(err)
	}
	return true, nil
}

func (s *Server) saleWithdraw(params json.RawMessage) (interface{}, *ErrorObject) {
	symbol, caller, extra, rpcErr := s.symbolCallerArgs(params, 1)
	if rpcErr != nil {
		return nil, rpcErr
	}
	engine, rpcErr := s.engine(symbol)
	if rpcErr != nil {
		return nil, rpcErr
	}

	asset := sale.AssetNative
	if strings.EqualFold(extra[0], "TOKEN") {
		asset = sale.AssetToken
	}

	swept, err := engine.Withdraw(caller, asset)
	if err != nil {
		return nil, engineError(err)
	}
	return swept.String(), nil
}

func (s *Server) saleAuthorizeUpgrade(params json.RawMessage) (interface{}, *ErrorObject) {
	symbol, caller, extra, rpcErr := s.symbolCallerArgs(params, 1)
	if rpcErr != nil {
		return nil, rpcErr
	}
	engine, rpcErr := s.engine(symbol)
	if rpcErr != nil {
		return nil, rpcErr
	}

	if err := engine.AuthorizeUpgrade(caller, common.HexToAddress(extra[0])); err != nil {
		return nil, engineError(err)
	}
	return true, nil
}

// symbolCallerArgs parses positional [symbol, caller, extra...] params.
func (s *Server) symbolCallerArgs(params json.RawMessage, extraCount int) (string, common.Address, []string, *ErrorObject) {
	var args []interface{}
	if err := json.Unmarshal(params, &args); err != nil || len(args) < 2+extraCount {
		return "", common.Address{}, nil, invalidParams("Invalid params")
	}

	symbol, ok := args[0].(string)
	if !ok {
		return "", common.Address{}, nil, invalidParams("Invalid symbol")
	}
	callerStr, ok := args[1].(string)
	if !ok {
		return "", common.Address{}, nil, invalidParams("Invalid caller")
	}

	extra := make([]string, extraCount)
	for i := 0; i < extraCount; i++ {
		raw, ok := args[2+i].(string)
		if !ok {
			return "", common.Address{}, nil, invalidParams("Invalid params")
		}
		extra[i] = raw
	}
	return symbol, common.HexToAddress(callerStr), extra, nil
}
