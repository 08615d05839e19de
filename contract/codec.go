package contract

import (
	"github.com/CosmWasm/tinyjson"
	"github.com/CosmWasm/tinyjson/jlexer"
	"github.com/CosmWasm/tinyjson/jwriter"
	"github.com/pkg/errors"

	"investment_contract/sdk"
)

// encode renders v as compact JSON for the host kv.
func encode(v tinyjson.Marshaler) (string, error) {
	data, err := tinyjson.Marshal(v)
	if err != nil {
		return "", errors.Wrap(err, "encode")
	}
	return string(data), nil
}

// decode parses a stored value into v.
func decode(s string, v tinyjson.Unmarshaler) error {
	return errors.Wrap(tinyjson.Unmarshal([]byte(s), v), "decode")
}

// readObject walks a JSON object and hands each non-null field to fn.
// Unknown fields must be skipped by fn with in.SkipRecursive().
func readObject(in *jlexer.Lexer, fn func(key string)) {
	isTopLevel := in.IsStart()
	if in.IsNull() {
		if isTopLevel {
			in.Consumed()
		}
		in.Skip()
		return
	}
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeFieldName(false)
		in.WantColon()
		if in.IsNull() {
			in.Skip()
			in.WantComma()
			continue
		}
		fn(key)
		in.WantComma()
	}
	in.Delim('}')
	if isTopLevel {
		in.Consumed()
	}
}

func writeAddresses(out *jwriter.Writer, list []sdk.Address) {
	out.RawByte('[')
	for i, a := range list {
		if i > 0 {
			out.RawByte(',')
		}
		out.String(string(a))
	}
	out.RawByte(']')
}

func readAddresses(in *jlexer.Lexer) []sdk.Address {
	if in.IsNull() {
		in.Skip()
		return nil
	}
	list := []sdk.Address{}
	in.Delim('[')
	for !in.IsDelim(']') {
		list = append(list, sdk.Address(in.String()))
		in.WantComma()
	}
	in.Delim(']')
	return list
}

// -----------------------------------------------------------------------------
// Config
// -----------------------------------------------------------------------------

func (v Config) MarshalTinyJSON(out *jwriter.Writer) {
	out.RawString(`{"admin":`)
	out.String(string(v.Admin))
	out.RawString(`,"project_address":`)
	out.String(string(v.ProjectAddress))
	out.RawString(`,"token":`)
	out.String(string(v.Token))
	out.RawString(`,"rate":`)
	out.Uint32(v.Rate)
	out.RawString(`,"claim_block_days":`)
	out.Uint64(v.ClaimBlockDays)
	out.RawString(`,"goal":`)
	out.Int64(v.Goal)
	out.RawString(`,"return_type":`)
	out.Uint8(uint8(v.ReturnType))
	out.RawString(`,"return_months":`)
	out.Uint32(v.ReturnMonths)
	out.RawString(`,"min_per_investment":`)
	out.Int64(v.MinPerInvestment)
	out.RawString(`,"state":`)
	out.Uint8(uint8(v.State))
	out.RawByte('}')
}

func (v *Config) UnmarshalTinyJSON(in *jlexer.Lexer) {
	readObject(in, func(key string) {
		switch key {
		case "admin":
			v.Admin = sdk.Address(in.String())
		case "project_address":
			v.ProjectAddress = sdk.Address(in.String())
		case "token":
			v.Token = sdk.TokenRef(in.String())
		case "rate":
			v.Rate = in.Uint32()
		case "claim_block_days":
			v.ClaimBlockDays = in.Uint64()
		case "goal":
			v.Goal = in.Int64()
		case "return_type":
			v.ReturnType = ReturnType(in.Uint8())
		case "return_months":
			v.ReturnMonths = in.Uint32()
		case "min_per_investment":
			v.MinPerInvestment = in.Int64()
		case "state":
			v.State = ContractState(in.Uint8())
		default:
			in.SkipRecursive()
		}
	})
}

// -----------------------------------------------------------------------------
// Balances
// -----------------------------------------------------------------------------

func (v Balances) MarshalTinyJSON(out *jwriter.Writer) {
	out.RawString(`{"reserve":`)
	out.Int64(v.Reserve)
	out.RawString(`,"project":`)
	out.Int64(v.Project)
	out.RawString(`,"commission":`)
	out.Int64(v.Commission)
	out.RawString(`,"received_so_far":`)
	out.Int64(v.ReceivedSoFar)
	out.RawString(`,"payments":`)
	out.Int64(v.Payments)
	out.RawString(`,"reserve_contributions":`)
	out.Int64(v.ReserveContributions)
	out.RawString(`,"project_withdrawals":`)
	out.Int64(v.ProjectWithdrawals)
	out.RawString(`,"moved_from_project_to_reserve":`)
	out.Int64(v.MovedFromProjectToReserve)
	out.RawByte('}')
}

func (v *Balances) UnmarshalTinyJSON(in *jlexer.Lexer) {
	readObject(in, func(key string) {
		switch key {
		case "reserve":
			v.Reserve = in.Int64()
		case "project":
			v.Project = in.Int64()
		case "commission":
			v.Commission = in.Int64()
		case "received_so_far":
			v.ReceivedSoFar = in.Int64()
		case "payments":
			v.Payments = in.Int64()
		case "reserve_contributions":
			v.ReserveContributions = in.Int64()
		case "project_withdrawals":
			v.ProjectWithdrawals = in.Int64()
		case "moved_from_project_to_reserve":
			v.MovedFromProjectToReserve = in.Int64()
		default:
			in.SkipRecursive()
		}
	})
}

// -----------------------------------------------------------------------------
// Investment
// -----------------------------------------------------------------------------

func (v Investment) MarshalTinyJSON(out *jwriter.Writer) {
	out.RawString(`{"investor":`)
	out.String(string(v.Investor))
	out.RawString(`,"deposited":`)
	out.Int64(v.Deposited)
	out.RawString(`,"accumulated_interest":`)
	out.Int64(v.AccumulatedInterest)
	out.RawString(`,"total":`)
	out.Int64(v.Total)
	out.RawString(`,"commission":`)
	out.Int64(v.Commission)
	out.RawString(`,"claimable_ts":`)
	out.Int64(v.ClaimableTs)
	out.RawString(`,"last_transfer_ts":`)
	out.Int64(v.LastTransferTs)
	out.RawString(`,"regular_payment":`)
	out.Int64(v.RegularPayment)
	out.RawString(`,"paid":`)
	out.Int64(v.Paid)
	out.RawString(`,"payments_transferred":`)
	out.Uint32(v.PaymentsTransferred)
	out.RawString(`,"status":`)
	out.Uint8(uint8(v.Status))
	out.RawByte('}')
}

func (v *Investment) UnmarshalTinyJSON(in *jlexer.Lexer) {
	readObject(in, func(key string) {
		switch key {
		case "investor":
			v.Investor = sdk.Address(in.String())
		case "deposited":
			v.Deposited = in.Int64()
		case "accumulated_interest":
			v.AccumulatedInterest = in.Int64()
		case "total":
			v.Total = in.Int64()
		case "commission":
			v.Commission = in.Int64()
		case "claimable_ts":
			v.ClaimableTs = in.Int64()
		case "last_transfer_ts":
			v.LastTransferTs = in.Int64()
		case "regular_payment":
			v.RegularPayment = in.Int64()
		case "paid":
			v.Paid = in.Int64()
		case "payments_transferred":
			v.PaymentsTransferred = in.Uint32()
		case "status":
			v.Status = InvestmentStatus(in.Uint8())
		default:
			in.SkipRecursive()
		}
	})
}

// -----------------------------------------------------------------------------
// Claims
// -----------------------------------------------------------------------------

// Claims are stored as a list since JSON object keys cannot hold the composite key.
func (v Claims) MarshalTinyJSON(out *jwriter.Writer) {
	out.RawByte('[')
	for i, k := range v.sortedKeys() {
		if i > 0 {
			out.RawByte(',')
		}
		c := v[k]
		out.RawString(`{"investor":`)
		out.String(string(k.Investor))
		out.RawString(`,"claimable_ts":`)
		out.Int64(k.ClaimableTs)
		out.RawString(`,"next_transfer_ts":`)
		out.Int64(c.NextTransferTs)
		out.RawString(`,"amount_to_pay":`)
		out.Int64(c.AmountToPay)
		out.RawByte('}')
	}
	out.RawByte(']')
}

func (v *Claims) UnmarshalTinyJSON(in *jlexer.Lexer) {
	isTopLevel := in.IsStart()
	*v = Claims{}
	if in.IsNull() {
		in.Skip()
	} else {
		in.Delim('[')
		for !in.IsDelim(']') {
			var k InvestmentKey
			var c Claim
			readObject(in, func(key string) {
				switch key {
				case "investor":
					k.Investor = sdk.Address(in.String())
				case "claimable_ts":
					k.ClaimableTs = in.Int64()
				case "next_transfer_ts":
					c.NextTransferTs = in.Int64()
				case "amount_to_pay":
					c.AmountToPay = in.Int64()
				default:
					in.SkipRecursive()
				}
			})
			(*v)[k] = c
			in.WantComma()
		}
		in.Delim(']')
	}
	if isTopLevel {
		in.Consumed()
	}
}

// -----------------------------------------------------------------------------
// MultisigRequest
// -----------------------------------------------------------------------------

func (v MultisigRequest) MarshalTinyJSON(out *jwriter.Writer) {
	out.RawString(`{"function":`)
	out.String(string(v.Function))
	out.RawString(`,"expected_signers":`)
	writeAddresses(out, v.ExpectedSigners)
	out.RawString(`,"signed":`)
	writeAddresses(out, v.Signed)
	out.RawString(`,"amount":`)
	out.Int64(v.Amount)
	out.RawString(`,"valid_ts":`)
	out.Int64(v.ValidTs)
	out.RawByte('}')
}

func (v *MultisigRequest) UnmarshalTinyJSON(in *jlexer.Lexer) {
	readObject(in, func(key string) {
		switch key {
		case "function":
			v.Function = MultisigFunction(in.String())
		case "expected_signers":
			v.ExpectedSigners = readAddresses(in)
		case "signed":
			v.Signed = readAddresses(in)
		case "amount":
			v.Amount = in.Int64()
		case "valid_ts":
			v.ValidTs = in.Int64()
		default:
			in.SkipRecursive()
		}
	})
}
