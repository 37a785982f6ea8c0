// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package evm

import (
	"bytes"
	"math"

	"github.com/Fantom-foundation/Arena/go/tosca"
	"github.com/ethereum/go-ethereum/params"
	"github.com/holiman/uint256"
)

// --- Control flow ---

func opJump(c *context) error {
	destination := c.stack.pop()
	return jumpTo(c, destination)
}

func opJumpi(c *context) error {
	destination, condition := c.stack.pop(), c.stack.pop()
	if condition.IsZero() {
		c.pc++
		return nil
	}
	return jumpTo(c, destination)
}

func jumpTo(c *context, destination *uint256.Int) error {
	if !destination.IsUint64() || !c.jumps.isValid(destination.Uint64()) {
		return tosca.ErrInvalidJump
	}
	c.pc = destination.Uint64()
	return nil
}

func opPush(c *context, n int) {
	start := c.pc + 1
	data := getData(c.code, start, uint64(n))
	c.stack.pushUndefined().SetBytes(data)
	c.pc += uint64(n) + 1
}

// --- Arithmetic ---

func opAdd(c *context) {
	a, b := c.stack.pop(), c.stack.peek()
	b.Add(a, b)
}

func opMul(c *context) {
	a, b := c.stack.pop(), c.stack.peek()
	b.Mul(a, b)
}

func opSub(c *context) {
	a, b := c.stack.pop(), c.stack.peek()
	b.Sub(a, b)
}

func opDiv(c *context) {
	a, b := c.stack.pop(), c.stack.peek()
	b.Div(a, b)
}

func opSDiv(c *context) {
	a, b := c.stack.pop(), c.stack.peek()
	b.SDiv(a, b)
}

func opMod(c *context) {
	a, b := c.stack.pop(), c.stack.peek()
	b.Mod(a, b)
}

func opSMod(c *context) {
	a, b := c.stack.pop(), c.stack.peek()
	b.SMod(a, b)
}

func opAddMod(c *context) {
	a, b, n := c.stack.pop(), c.stack.pop(), c.stack.peek()
	n.AddMod(a, b, n)
}

func opMulMod(c *context) {
	a, b, n := c.stack.pop(), c.stack.pop(), c.stack.peek()
	n.MulMod(a, b, n)
}

func opExp(c *context) error {
	base, exponent := c.stack.pop(), c.stack.peek()
	if err := c.useGas(tosca.Gas(params.ExpByteEIP158 * uint64(exponent.ByteLen()))); err != nil {
		return err
	}
	exponent.Exp(base, exponent)
	return nil
}

func opSignExtend(c *context) {
	back, num := c.stack.pop(), c.stack.peek()
	num.ExtendSign(num, back)
}

// --- Comparison and bitwise ---

func setBool(trg *uint256.Int, value bool) {
	if value {
		trg.SetOne()
	} else {
		trg.Clear()
	}
}

func opLt(c *context) {
	a, b := c.stack.pop(), c.stack.peek()
	setBool(b, a.Lt(b))
}

func opGt(c *context) {
	a, b := c.stack.pop(), c.stack.peek()
	setBool(b, a.Gt(b))
}

func opSlt(c *context) {
	a, b := c.stack.pop(), c.stack.peek()
	setBool(b, a.Slt(b))
}

func opSgt(c *context) {
	a, b := c.stack.pop(), c.stack.peek()
	setBool(b, a.Sgt(b))
}

func opEq(c *context) {
	a, b := c.stack.pop(), c.stack.peek()
	setBool(b, a.Eq(b))
}

func opIszero(c *context) {
	a := c.stack.peek()
	setBool(a, a.IsZero())
}

func opAnd(c *context) {
	a, b := c.stack.pop(), c.stack.peek()
	b.And(a, b)
}

func opOr(c *context) {
	a, b := c.stack.pop(), c.stack.peek()
	b.Or(a, b)
}

func opXor(c *context) {
	a, b := c.stack.pop(), c.stack.peek()
	b.Xor(a, b)
}

func opNot(c *context) {
	a := c.stack.peek()
	a.Not(a)
}

func opByte(c *context) {
	th, val := c.stack.pop(), c.stack.peek()
	val.Byte(th)
}

func opShl(c *context) {
	shift, value := c.stack.pop(), c.stack.peek()
	if shift.LtUint64(256) {
		value.Lsh(value, uint(shift.Uint64()))
	} else {
		value.Clear()
	}
}

func opShr(c *context) {
	shift, value := c.stack.pop(), c.stack.peek()
	if shift.LtUint64(256) {
		value.Rsh(value, uint(shift.Uint64()))
	} else {
		value.Clear()
	}
}

func opSar(c *context) {
	shift, value := c.stack.pop(), c.stack.peek()
	if shift.GtUint64(255) {
		if value.Sign() >= 0 {
			value.Clear()
		} else {
			value.SetAllOne()
		}
		return
	}
	value.SRsh(value, uint(shift.Uint64()))
}

func opKeccak256(c *context) error {
	offset, size := c.stack.pop(), c.stack.peek()
	if err := checkSizeOffsetUint64Overflow(offset, size); err != nil {
		return err
	}
	words := tosca.SizeInWords(size.Uint64())
	if err := c.useGas(tosca.Gas(params.Keccak256WordGas * words)); err != nil {
		return err
	}
	data, err := c.memory.getSlice(offset.Uint64(), size.Uint64(), c)
	if err != nil {
		return err
	}
	hash := Keccak256(data)
	size.SetBytes32(hash[:])
	return nil
}

// --- Environment ---

func opAddress(c *context) {
	c.stack.pushUndefined().SetBytes20(c.params.Recipient[:])
}

func opBalance(c *context) error {
	slot := c.stack.peek()
	address := tosca.Address(slot.Bytes20())
	if err := c.useGas(getAccessCost(c.context.AccessAccount(address))); err != nil {
		return err
	}
	balance := c.context.GetBalance(address)
	slot.SetBytes32(balance[:])
	return nil
}

func opOrigin(c *context) {
	c.stack.pushUndefined().SetBytes20(c.params.Origin[:])
}

func opCaller(c *context) {
	c.stack.pushUndefined().SetBytes20(c.params.Sender[:])
}

func opCallvalue(c *context) {
	c.stack.pushUndefined().SetBytes32(c.params.Value[:])
}

func opCallDataload(c *context) {
	top := c.stack.peek()
	offset, overflow := top.Uint64WithOverflow()
	if overflow {
		top.Clear()
		return
	}
	top.SetBytes32(getData(c.params.Input, offset, 32))
}

func opCallDatasize(c *context) {
	c.stack.pushUndefined().SetUint64(uint64(len(c.params.Input)))
}

func opCodeSize(c *context) {
	c.stack.pushUndefined().SetUint64(uint64(len(c.params.Code)))
}

// genericDataCopy implements CALLDATACOPY and CODECOPY, which differ only in
// their data source.
func genericDataCopy(c *context, source []byte) error {
	var (
		memOffset  = c.stack.pop()
		dataOffset = c.stack.pop()
		length     = c.stack.pop()
	)
	if err := checkSizeOffsetUint64Overflow(memOffset, length); err != nil {
		return err
	}
	offset, overflow := dataOffset.Uint64WithOverflow()
	if overflow {
		offset = math.MaxUint64
	}
	words := tosca.SizeInWords(length.Uint64())
	if err := c.useGas(tosca.Gas(params.CopyGas * words)); err != nil {
		return err
	}
	data, err := c.memory.getSlice(memOffset.Uint64(), length.Uint64(), c)
	if err != nil {
		return err
	}
	copy(data, getData(source, offset, length.Uint64()))
	return nil
}

func opGasPrice(c *context) {
	c.stack.pushUndefined().SetBytes32(c.params.GasPrice[:])
}

func opExtcodesize(c *context) error {
	top := c.stack.peek()
	address := tosca.Address(top.Bytes20())
	if err := c.useGas(getAccessCost(c.context.AccessAccount(address))); err != nil {
		return err
	}
	top.SetUint64(uint64(c.context.GetCodeSize(address)))
	return nil
}

func opExtCodeCopy(c *context) error {
	var (
		a          = c.stack.pop()
		memOffset  = c.stack.pop()
		codeOffset = c.stack.pop()
		length     = c.stack.pop()
	)
	if err := checkSizeOffsetUint64Overflow(memOffset, length); err != nil {
		return err
	}
	words := tosca.SizeInWords(length.Uint64())
	if err := c.useGas(tosca.Gas(params.CopyGas * words)); err != nil {
		return err
	}
	address := tosca.Address(a.Bytes20())
	if err := c.useGas(getAccessCost(c.context.AccessAccount(address))); err != nil {
		return err
	}
	offset, overflow := codeOffset.Uint64WithOverflow()
	if overflow {
		offset = math.MaxUint64
	}
	data, err := c.memory.getSlice(memOffset.Uint64(), length.Uint64(), c)
	if err != nil {
		return err
	}
	copy(data, getData(c.context.GetCode(address), offset, length.Uint64()))
	return nil
}

func opReturnDataSize(c *context) {
	c.stack.pushUndefined().SetUint64(uint64(len(c.returnData)))
}

func opReturnDataCopy(c *context) error {
	var (
		memOffset  = c.stack.pop()
		dataOffset = c.stack.pop()
		length     = c.stack.pop()
	)
	start, overflow := dataOffset.Uint64WithOverflow()
	if overflow {
		return tosca.ErrReturnDataOutOfBounds
	}
	end := new(uint256.Int).Add(dataOffset, length)
	end64, overflow := end.Uint64WithOverflow()
	if overflow || uint64(len(c.returnData)) < end64 {
		return tosca.ErrReturnDataOutOfBounds
	}
	if err := checkSizeOffsetUint64Overflow(memOffset, length); err != nil {
		return err
	}
	words := tosca.SizeInWords(length.Uint64())
	if err := c.useGas(tosca.Gas(params.CopyGas * words)); err != nil {
		return err
	}
	return c.memory.set(memOffset.Uint64(), c.returnData[start:end64], c)
}

func opExtcodehash(c *context) error {
	slot := c.stack.peek()
	address := tosca.Address(slot.Bytes20())
	if err := c.useGas(getAccessCost(c.context.AccessAccount(address))); err != nil {
		return err
	}
	if !c.context.AccountExists(address) {
		slot.Clear()
		return nil
	}
	hash := c.context.GetCodeHash(address)
	slot.SetBytes32(hash[:])
	return nil
}

// --- Block information ---

func opBlockhash(c *context) {
	num := c.stack.peek()
	num64, overflow := num.Uint64WithOverflow()
	if overflow {
		num.Clear()
		return
	}
	upper := uint64(c.params.BlockNumber)
	lower := uint64(0)
	if upper > 256 {
		lower = upper - 256
	}
	if num64 >= lower && num64 < upper {
		hash := c.context.GetBlockHash(int64(num64))
		num.SetBytes32(hash[:])
	} else {
		num.Clear()
	}
}

func opCoinbase(c *context) {
	c.stack.pushUndefined().SetBytes20(c.params.Coinbase[:])
}

func opTimestamp(c *context) {
	c.stack.pushUndefined().SetUint64(uint64(c.params.Timestamp))
}

func opNumber(c *context) {
	c.stack.pushUndefined().SetUint64(uint64(c.params.BlockNumber))
}

func opPrevRandao(c *context) {
	c.stack.pushUndefined().SetBytes32(c.params.PrevRandao[:])
}

func opGasLimit(c *context) {
	c.stack.pushUndefined().SetUint64(uint64(c.params.GasLimit))
}

func opChainId(c *context) {
	c.stack.pushUndefined().SetBytes32(c.params.ChainID[:])
}

func opSelfbalance(c *context) {
	balance := c.context.GetBalance(c.params.Recipient)
	c.stack.pushUndefined().SetBytes32(balance[:])
}

func opBaseFee(c *context) {
	c.stack.pushUndefined().SetBytes32(c.params.BaseFee[:])
}

func opBlobHash(c *context) {
	index := c.stack.peek()
	if index.IsUint64() && index.Uint64() < uint64(len(c.params.BlobHashes)) {
		index.SetBytes32(c.params.BlobHashes[index.Uint64()][:])
	} else {
		index.Clear()
	}
}

func opBlobBaseFee(c *context) {
	c.stack.pushUndefined().SetBytes32(c.params.BlobBaseFee[:])
}

// --- Memory and storage ---

func opMload(c *context) error {
	trg := c.stack.peek()
	offset, overflow := trg.Uint64WithOverflow()
	if overflow {
		return errGasUintOverflow
	}
	return c.memory.readWord(offset, trg, c)
}

func opMstore(c *context) error {
	addr, value := c.stack.pop(), c.stack.pop()
	offset, overflow := addr.Uint64WithOverflow()
	if overflow {
		return errGasUintOverflow
	}
	data := value.Bytes32()
	return c.memory.set(offset, data[:], c)
}

func opMstore8(c *context) error {
	addr, value := c.stack.pop(), c.stack.pop()
	offset, overflow := addr.Uint64WithOverflow()
	if overflow {
		return errGasUintOverflow
	}
	return c.memory.set(offset, []byte{byte(value.Uint64())}, c)
}

func opMcopy(c *context) error {
	dest, src, size := c.stack.pop(), c.stack.pop(), c.stack.pop()
	if size.IsZero() {
		return nil
	}
	destOffset, destOverflow := dest.Uint64WithOverflow()
	srcOffset, srcOverflow := src.Uint64WithOverflow()
	if destOverflow || srcOverflow || !size.IsUint64() {
		return errGasUintOverflow
	}
	length := size.Uint64()
	if err := c.useGas(tosca.Gas(params.CopyGas * tosca.SizeInWords(length))); err != nil {
		return err
	}
	// Both ranges are expanded before copying, so the source slice is not
	// invalidated by the expansion of the destination.
	if err := c.memory.expand(max(destOffset, srcOffset), length, c); err != nil {
		return err
	}
	data, err := c.memory.getSlice(srcOffset, length, c)
	if err != nil {
		return err
	}
	return c.memory.set(destOffset, bytes.Clone(data), c)
}

func opSload(c *context) error {
	top := c.stack.peek()
	key := tosca.Key(top.Bytes32())
	if err := c.useGas(getSloadCost(c.context.AccessStorage(c.params.Recipient, key))); err != nil {
		return err
	}
	value := c.context.GetStorage(c.params.Recipient, key)
	top.SetBytes32(value[:])
	return nil
}

func opSstore(c *context) error {
	// EIP-2200 demands that more than the call stipend is available.
	if c.gas <= tosca.Gas(params.SstoreSentryGasEIP2200) {
		return tosca.ErrOutOfGas
	}

	key := tosca.Key(c.stack.pop().Bytes32())
	value := tosca.Word(c.stack.pop().Bytes32())

	cost := tosca.Gas(0)
	if c.context.AccessStorage(c.params.Recipient, key) == tosca.ColdAccess {
		cost += tosca.Gas(params.ColdSloadCostEIP2929)
	}

	status := c.context.SetStorage(c.params.Recipient, key, value)
	cost += getDynamicCostsForSstore(status)
	if err := c.useGas(cost); err != nil {
		return err
	}
	c.refund += getRefundForSstore(c.params.Revision, status)
	return nil
}

func opTload(c *context) {
	top := c.stack.peek()
	value := c.context.GetTransientStorage(c.params.Recipient, tosca.Key(top.Bytes32()))
	top.SetBytes32(value[:])
}

func opTstore(c *context) {
	key := tosca.Key(c.stack.pop().Bytes32())
	value := tosca.Word(c.stack.pop().Bytes32())
	c.context.SetTransientStorage(c.params.Recipient, key, value)
}

func opLog(c *context, size int) error {
	start, length := c.stack.pop(), c.stack.pop()
	if err := checkSizeOffsetUint64Overflow(start, length); err != nil {
		return err
	}
	topics := make([]tosca.Hash, size)
	for i := 0; i < size; i++ {
		topics[i] = c.stack.pop().Bytes32()
	}

	if !length.IsUint64() || length.Uint64() > math.MaxInt64/params.LogDataGas {
		return errGasUintOverflow
	}
	if err := c.useGas(tosca.Gas(params.LogDataGas * length.Uint64())); err != nil {
		return err
	}
	data, err := c.memory.getSlice(start.Uint64(), length.Uint64(), c)
	if err != nil {
		return err
	}
	c.context.EmitLog(tosca.Log{
		Address: c.params.Recipient,
		Topics:  topics,
		Data:    bytes.Clone(data),
	})
	return nil
}

func opSelfdestruct(c *context) (status, error) {
	beneficiary := tosca.Address(c.stack.pop().Bytes20())

	// EIP-2929 charges cold beneficiaries only, the warm cost is not added.
	cost := tosca.Gas(0)
	if c.context.AccessAccount(beneficiary) == tosca.ColdAccess {
		cost += tosca.Gas(params.ColdAccountAccessCostEIP2929)
	}
	balance := c.context.GetBalance(c.params.Recipient)
	if !c.context.AccountExists(beneficiary) && !balance.IsZero() {
		cost += tosca.Gas(params.CreateBySelfdestructGas)
	}
	if err := c.useGas(cost); err != nil {
		return statusFailed, err
	}

	destructed := c.context.SelfDestruct(c.params.Recipient, beneficiary)
	// EIP-3529 removed the refund with London.
	if destructed && !c.isAtLeast(tosca.R10_London) {
		c.refund += tosca.Gas(params.SelfdestructRefundGas)
	}
	return statusSelfDestructed, nil
}

// --- Nested calls ---

func opCall(c *context) error {
	value := c.stack.peekN(2)
	if c.params.Static && !value.IsZero() {
		return tosca.ErrWriteProtection
	}
	return genericCall(c, tosca.Call)
}

func genericCall(c *context, kind tosca.CallKind) error {
	value := uint256.NewInt(0)
	providedGas, addr := c.stack.pop(), c.stack.pop()
	if kind == tosca.Call || kind == tosca.CallCode {
		value = c.stack.pop()
	}
	inOffset, inSize := c.stack.pop(), c.stack.pop()
	retOffset, retSize := c.stack.pop(), c.stack.pop()
	toAddr := tosca.Address(addr.Bytes20())

	if err := checkSizeOffsetUint64Overflow(inOffset, inSize); err != nil {
		return err
	}
	if err := checkSizeOffsetUint64Overflow(retOffset, retSize); err != nil {
		return err
	}

	// Both regions are expanded before the call, so the slices stay valid.
	if err := c.memory.expand(inOffset.Uint64(), inSize.Uint64(), c); err != nil {
		return err
	}
	if err := c.memory.expand(retOffset.Uint64(), retSize.Uint64(), c); err != nil {
		return err
	}
	args, _ := c.memory.getSlice(inOffset.Uint64(), inSize.Uint64(), c)
	output, _ := c.memory.getSlice(retOffset.Uint64(), retSize.Uint64(), c)

	if err := c.useGas(getAccessCost(c.context.AccessAccount(toAddr))); err != nil {
		return err
	}
	if !value.IsZero() {
		if err := c.useGas(tosca.Gas(params.CallValueTransferGas)); err != nil {
			return err
		}
	}
	if kind == tosca.Call && !value.IsZero() && !c.context.AccountExists(toAddr) {
		if err := c.useGas(tosca.Gas(params.CallNewAccountGas)); err != nil {
			return err
		}
	}

	nestedCallGas := callGas(c.gas, providedGas.Uint64(), providedGas.IsUint64())
	if err := c.useGas(nestedCallGas); err != nil {
		return err
	}
	if !value.IsZero() {
		nestedCallGas += tosca.Gas(params.CallStipend)
	}

	// A caller lacking the value to transfer gets the forwarded gas back.
	if !value.IsZero() {
		balance := c.context.GetBalance(c.params.Recipient)
		if balance.ToUint256().Lt(value) {
			c.stack.pushUndefined().Clear()
			c.returnData = nil
			c.gas += nestedCallGas
			return nil
		}
	}

	// Nested calls of static calls remain static.
	if c.params.Static && kind == tosca.Call {
		kind = tosca.StaticCall
	}

	callParams := tosca.CallParameters{
		Sender:       c.params.Recipient,
		Recipient:    toAddr,
		CodeAddress:  toAddr,
		Input:        bytes.Clone(args),
		Gas:          nestedCallGas,
		Value:        tosca.Value(value.Bytes32()),
		ReturnOffset: retOffset.Uint64(),
		ReturnSize:   retSize.Uint64(),
	}
	switch kind {
	case tosca.CallCode:
		callParams.Recipient = c.params.Recipient
	case tosca.DelegateCall:
		callParams.Sender = c.params.Sender
		callParams.Recipient = c.params.Recipient
		callParams.Value = c.params.Value
	}
	if retSize.IsZero() {
		callParams.ReturnOffset = 0
	}

	ret, err := c.context.Call(kind, callParams)
	if err != nil {
		return err
	}
	copy(output, ret.Output)

	setBool(c.stack.pushUndefined(), ret.Success)
	c.gas += ret.GasLeft
	c.refund += ret.GasRefund
	c.returnData = ret.Output
	return nil
}

func genericCreate(c *context, kind tosca.CallKind) error {
	var (
		value  = c.stack.pop()
		offset = c.stack.pop()
		size   = c.stack.pop()
		salt   = tosca.Hash{}
	)
	if kind == tosca.Create2 {
		salt = c.stack.pop().Bytes32()
	}
	if err := checkSizeOffsetUint64Overflow(offset, size); err != nil {
		return err
	}

	length := size.Uint64()
	if c.isAtLeast(tosca.R12_Shanghai) {
		cost, err := getInitCodeCost(length)
		if err != nil {
			return err
		}
		if err := c.useGas(cost); err != nil {
			return err
		}
	}
	if kind == tosca.Create2 {
		// Hashing the init code for the address computation.
		if err := c.useGas(tosca.Gas(params.Keccak256WordGas * tosca.SizeInWords(length))); err != nil {
			return err
		}
	}
	input, err := c.memory.getSlice(offset.Uint64(), length, c)
	if err != nil {
		return err
	}

	if !value.IsZero() {
		balance := c.context.GetBalance(c.params.Recipient)
		if balance.ToUint256().Lt(value) {
			c.stack.pushUndefined().Clear()
			c.returnData = nil
			return nil
		}
	}

	gas := c.gas - c.gas/64
	if err := c.useGas(gas); err != nil {
		return err
	}

	res, err := c.context.Call(kind, tosca.CallParameters{
		Sender: c.params.Recipient,
		Value:  tosca.Value(value.Bytes32()),
		Input:  bytes.Clone(input),
		Gas:    gas,
		Salt:   salt,
	})
	if err != nil {
		return err
	}

	result := c.stack.pushUndefined()
	if res.Success {
		result.SetBytes20(res.CreatedAddress[:])
		c.returnData = nil
	} else {
		result.Clear()
		c.returnData = res.Output
	}
	c.gas += res.GasLeft
	c.refund += res.GasRefund
	return nil
}

// --- Helpers ---

// getData returns size bytes of data starting at start, padded with zeros
// beyond the end of data.
func getData(data []byte, start uint64, size uint64) []byte {
	length := uint64(len(data))
	if start > length {
		start = length
	}
	end := start + size
	if end > length || end < start {
		end = length
	}
	res := make([]byte, int(size))
	copy(res, data[start:end])
	return res
}

func checkSizeOffsetUint64Overflow(offset, size *uint256.Int) error {
	if size.IsZero() {
		return nil
	}
	if !offset.IsUint64() || !size.IsUint64() || offset.Uint64()+size.Uint64() < offset.Uint64() {
		return errGasUintOverflow
	}
	return nil
}
